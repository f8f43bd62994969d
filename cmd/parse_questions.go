package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tieubaoca/feasibility-be/utils"
)

var parseQuestionsCmd = &cobra.Command{
	Use:   "parse-questions",
	Short: "Parse numbered questions out of model output",
	Long:  `Reads model output from --file or stdin and prints the parsed questions as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		var in io.Reader = cmd.InOrStdin()
		if file != "" {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		text, err := io.ReadAll(in)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(utils.ParseQuestions(string(text)), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseQuestionsCmd)

	parseQuestionsCmd.Flags().StringP("file", "f", "", "File holding the model output (default stdin)")
}
