package cli

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"warroom/internal/config"
	"warroom/internal/protocol"
)

// runInteractiveMode drives one run per loop iteration: choose a protocol,
// fill its fields, execute, show results, ask again.
func runInteractiveMode(cfg *config.Config) error {
	ctx := context.Background()

	for {
		proto, err := promptForProtocol()
		if err != nil {
			return err
		}

		fields, err := promptForFields(proto)
		if err != nil {
			return err
		}

		if err := executeRun(ctx, cfg, proto, fields); err != nil {
			fmt.Printf("Run failed: %v\n", err)
		}

		again := false
		if err := survey.AskOne(&survey.Confirm{Message: "Run another protocol?", Default: true}, &again); err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func promptForProtocol() (protocol.Protocol, error) {
	options := make([]string, 0, 4)
	byTitle := make(map[string]protocol.Protocol, 4)
	for _, p := range protocol.All() {
		options = append(options, p.Title())
		byTitle[p.Title()] = p
	}

	var choice string
	prompt := &survey.Select{
		Message: "Engage protocol:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return byTitle[choice], nil
}

func promptForFields(proto protocol.Protocol) (map[string]string, error) {
	fields := map[string]string{}

	switch proto {
	case protocol.Scout:
		ticker, err := askInput("Enter ticker symbol:", "NVDA")
		if err != nil {
			return nil, err
		}
		fields[protocol.FieldTicker] = ticker

	case protocol.Intel:
		ticker, err := askInput("Related ticker (optional):", "TSM")
		if err != nil {
			return nil, err
		}
		fields[protocol.FieldTicker] = ticker

		var content string
		if err := survey.AskOne(&survey.Multiline{Message: "Paste intel text or a link:"}, &content); err != nil {
			return nil, err
		}
		fields[protocol.FieldContent] = content

	case protocol.Hunt:
		keyword, err := askInput("Enter trend keyword:", "liquid cooling")
		if err != nil {
			return nil, err
		}
		fields[protocol.FieldKeyword] = keyword

	case protocol.Macro:
		sofr, err := askInput("SOFR - IORB (liquidity):", "-0.05")
		if err != nil {
			return nil, err
		}
		fields[protocol.FieldSofrIorb] = sofr

		hyg, err := askSelect("HYG high-yield trend (credit):", []string{
			"rising (risk-on)", "falling (risk-off)", "sideways",
		})
		if err != nil {
			return nil, err
		}
		fields[protocol.FieldHygTrend] = hyg

		btc, err := askSelect("BTC (liquidity canary):", []string{
			"strong", "weak", "crash",
		})
		if err != nil {
			return nil, err
		}
		fields[protocol.FieldBtcTrend] = btc

		cogo, err := askSelect("Copper/gold ratio (growth):", []string{
			"rising (recovery)", "falling (recession/stagflation)",
		})
		if err != nil {
			return nil, err
		}
		fields[protocol.FieldCopperGold] = cogo

		var notes string
		if err := survey.AskOne(&survey.Multiline{Message: "Other macro notes (Fed stance / inflation prints):"}, &notes); err != nil {
			return nil, err
		}
		fields[protocol.FieldNotes] = notes
	}

	return fields, nil
}

func askInput(message, def string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message, Default: def}, &answer)
	return answer, err
}

func askSelect(message string, options []string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &answer)
	return answer, err
}
