package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"payqr/core/payload"
	"payqr/core/reconcile"
	"payqr/core/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert once and write the QR image",
	Long: `Reconciles rate, amount A (RMB) and amount B (RUB) from the flags, prints
the payload and optionally writes the rendered PNG. Flags that are not given
fall back to the persisted values.`,
	Example: `  payqr convert --rate 11.65 --amount-a 1000 --out qr.png
  payqr convert --amount-b 23300 --edited amount_b --format bank_transfer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		state := rt.state(ctx)
		in := state.Inputs
		flags := cmd.Flags()

		edited := reconcile.FieldNone
		for _, f := range []struct {
			flag  string
			field reconcile.Field
			dst   **float64
		}{
			{"rate", reconcile.FieldRate, &in.Rate},
			{"amount-a", reconcile.FieldAmountA, &in.AmountA},
			{"amount-b", reconcile.FieldAmountB, &in.AmountB},
		} {
			if !flags.Changed(f.flag) {
				continue
			}
			v, _ := flags.GetFloat64(f.flag)
			*f.dst = &v
			edited = f.field
		}

		if name, _ := flags.GetString("edited"); name != "" {
			if edited, err = reconcile.ParseField(name); err != nil {
				return err
			}
		}

		formatName, _ := flags.GetString("format")
		format, err := payload.ParseFormat(formatName)
		if err != nil {
			return err
		}

		contract := state.Contract
		if flags.Changed("contract") {
			contract.Reference, _ = flags.GetString("contract")
			contract.Enabled = contract.Reference != ""
		}

		t, err := reconcile.Resolve(edited, in)
		var verr *reconcile.ValidationError
		switch {
		case errors.As(err, &verr):
			fmt.Println("\n--- Invalid Input ---")
			for _, p := range verr.Problems {
				fmt.Printf("  - %s\n", p)
			}
			return err
		case err != nil:
			return err
		}

		purpose := payload.Purpose(t.AmountA, contract)
		text, err := payload.Encode(t, rt.cfg.Payee, purpose, format)
		if err != nil {
			return err
		}

		fmt.Println("\n--- Conversion ---")
		fmt.Printf("Rate:      %v\n", t.Rate)
		fmt.Printf("Amount A:  %s RMB\n", payload.FormatWhole(t.AmountA))
		fmt.Printf("Amount B:  %s\n", payload.AmountLabel(t))
		fmt.Printf("Format:    %s\n", format)
		fmt.Printf("Payload:   %s\n", text)

		if save, _ := flags.GetBool("save"); save {
			if err := rt.store.SaveInputs(ctx, t.Inputs(), contract); err != nil {
				rt.log.Warn("Failed to persist inputs", zap.Error(err))
			}
		}

		out, _ := flags.GetString("out")
		if out == "" {
			return nil
		}

		renderer, err := render.NewQRRenderer(rt.cfg.Render)
		if err != nil {
			return err
		}
		rctx := ctx
		if secs := rt.cfg.Render.TimeoutSeconds; secs > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
			defer cancel()
		}
		img, err := renderer.Render(rctx, text, payload.AmountLabel(t), payload.Sanitize(rt.cfg.Payee.Name))
		if err != nil {
			return fmt.Errorf("failed to render QR image: %w", err)
		}
		if err := os.WriteFile(out, img, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Printf("Image:     %s (%d bytes)\n", out, len(img))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(convertCmd)

	convertCmd.Flags().Float64("rate", 0, "Conversion rate (RUB per RMB)")
	convertCmd.Flags().Float64("amount-a", 0, "Amount in RMB")
	convertCmd.Flags().Float64("amount-b", 0, "Amount in RUB")
	convertCmd.Flags().String("edited", "", "Field treated as last edited (rate, amount_a, amount_b); defaults to the last of --rate, --amount-a, --amount-b that is set")
	convertCmd.Flags().String("format", "fast_payment", "Payload format (fast_payment, bank_transfer, plain_text)")
	convertCmd.Flags().String("contract", "", "Contract reference for the payment purpose")
	convertCmd.Flags().String("out", "", "Write the rendered PNG to this file")
	convertCmd.Flags().Bool("save", false, "Persist the reconciled inputs")
}
