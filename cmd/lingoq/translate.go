package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/lingoq"
	"github.com/ZaguanLabs/lingoq/htmltext"
	"github.com/spf13/cobra"
)

func newTranslateCmd(configPath *string) *cobra.Command {
	var (
		targetLang string
		dryRun     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate strings given as arguments or one per line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := args
			if len(texts) == 0 {
				var err error
				if texts, err = readLines(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
			}

			cfg, err := loadConfig(*configPath, dryRun)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			res, err := a.coord.Do(cmd.Context(), lingoq.Request{Texts: texts, TargetLang: targetLang})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					TargetLang string              `json:"target_lang"`
					Texts      []string            `json:"texts"`
					Source     lingoq.ResultSource `json:"source"`
					Attempts   int                 `json:"attempts"`
					ElapsedMs  int64               `json:"elapsed_ms"`
				}{targetLang, res.Texts, res.Source, res.Attempts, time.Since(start).Milliseconds()})
			}

			for _, t := range res.Texts {
				fmt.Fprintln(out, t)
			}
			if res.Source == lingoq.SourceFallback {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: translation unavailable, printed original text")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "target language code (e.g., es, hi, pt_BR)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "use the built-in mock provider instead of the API")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output result as JSON")
	cmd.MarkFlagRequired("lang")
	return cmd
}

func newHTMLCmd(configPath *string) *cobra.Command {
	var (
		targetLang string
		output     string
		dryRun     bool
		quiet      bool
		extract    bool
	)

	cmd := &cobra.Command{
		Use:   "html [file]",
		Short: "Localize an HTML file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			inputName := "stdin"
			var err error
			if len(args) == 0 {
				input, err = io.ReadAll(cmd.InOrStdin())
			} else {
				input, err = os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
				inputName = filepath.Base(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			if extract {
				texts, err := htmltext.NewLocalizer(nil).Extract(string(input))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Found %d translatable strings in %s:\n\n", len(texts), inputName)
				for i, text := range texts {
					fmt.Fprintf(out, "%3d. %q\n", i+1, text)
				}
				return nil
			}

			cfg, err := loadConfig(*configPath, dryRun)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "Localizing %s to %s...\n", inputName, targetLang)
			}

			localizer := htmltext.NewLocalizer(a.coord, htmltext.WithSourceLang(a.coord.SourceLang()))
			result, err := localizer.Localize(cmd.Context(), string(input), targetLang)
			if err != nil {
				return fmt.Errorf("localize: %w", err)
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			fmt.Fprint(out, result)

			if !quiet {
				s := a.coord.Stats()
				fmt.Fprintf(cmd.ErrOrStderr(), "Done: %d upstream call(s), %d cache hit(s), %d fallback(s)\n",
					s.UpstreamCalls, s.CacheHits, s.Fallbacks)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "target language code (e.g., es, hi, pt_BR)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "use the built-in mock provider instead of the API")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	cmd.Flags().BoolVar(&extract, "extract", false, "list the strings that would be translated and exit")
	cmd.MarkFlagRequired("lang")
	return cmd
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
