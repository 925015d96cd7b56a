package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var initForce bool

const starterConfig = `listen: "%s"
log:
  level: info
routes:
  - path: %s
    methods: [GET, HEAD]
    etag: v1
    representations:
      - contentType: %s
        body: "hello from decider"
`

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Create a starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "decider.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		listen := ":8080"
		routePath := "/hello"
		contentType := "text/plain"

		// Prompt only when someone is actually at the terminal.
		if isatty.IsTerminal(os.Stdin.Fd()) {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Listen address").
						Value(&listen),
					huh.NewInput().
						Title("First route path").
						Value(&routePath).
						Validate(func(s string) error {
							if s == "" || s[0] != '/' {
								return errors.New("path must start with /")
							}
							return nil
						}),
					huh.NewSelect[string]().
						Title("Content type of the first representation").
						Options(
							huh.NewOption("text/plain", "text/plain"),
							huh.NewOption("text/html", "text/html"),
							huh.NewOption("application/json", "application/json"),
						).
						Value(&contentType),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}

		data := fmt.Sprintf(starterConfig, listen, routePath, contentType)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}
