package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	html2pdf "github.com/alnah/go-html2pdf"
)

func getDecodeCmd(root *rootCommand) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <payload.b64|->",
		Short: "Turn a base64 payload from convert --encoding base64 back into a PDF",
		Example: `  html2pdf convert page.html -o page.b64 --encoding base64
  html2pdf decode page.b64 -o page.pdf
  curl -s ... | jq -r .pdf | html2pdf decode - -o - > page.pdf`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			if output == "" {
				return usageErrorf("--output is required")
			}

			encoded, err := readPayload(root, args[0])
			if err != nil {
				return err
			}
			encoded = bytes.TrimSpace(encoded)

			if output == stdioPath {
				pdf, err := html2pdf.DecodeBase64(encoded)
				if err != nil {
					return err
				}
				_, err = root.env.Stdout.Write(pdf)
				return err
			}

			conv := html2pdf.NewConverter(
				html2pdf.WithFileSystem(root.env.Fs),
				html2pdf.WithLogger(root.env.Logger),
			)
			if err := conv.WriteBase64ToFile(encoded, output); err != nil {
				return err
			}
			if !root.quiet {
				root.out.ok.Fprint(root.out.stderr, "Created")
				fmt.Fprintf(root.out.stderr, " %s\n", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `PDF file to write, or "-" for stdout`)
	registerCompletions(cmd)

	return cmd
}

func readPayload(root *rootCommand, input string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if input == stdioPath {
		data, err = io.ReadAll(root.env.Stdin)
	} else {
		data, err = afero.ReadFile(root.env.Fs, input)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, input, err)
	}
	return data, nil
}
