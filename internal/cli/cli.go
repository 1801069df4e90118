// Package cli implements the cdnstyle command line tool, which resolves derivative URLs offline
// from a style file and a metadata file.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"runtime"
	"strings"

	"github.com/DMarby/cdnstyle/internal/cache/memory"
	"github.com/DMarby/cdnstyle/internal/database/file"
	"github.com/DMarby/cdnstyle/internal/delivery"
	"github.com/DMarby/cdnstyle/internal/hmac"
	"github.com/DMarby/cdnstyle/internal/logger"
	"github.com/DMarby/cdnstyle/internal/metadata"
	"github.com/DMarby/cdnstyle/internal/params"
	"github.com/DMarby/cdnstyle/internal/queue"
	"github.com/DMarby/cdnstyle/internal/style"
	"github.com/DMarby/cdnstyle/internal/tracing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CLI holds the shared state of all commands
type CLI struct {
	in  io.Reader
	out io.Writer
	log *logger.Logger

	stylesPath string
	fallback   bool
}

// New returns a CLI writing command output to out
func New(out io.Writer) *CLI {
	return &CLI{
		out: out,
		log: logger.New(zap.ErrorLevel),
	}
}

// SetInput sets the reader batch commands read from, stdin by default
func (c *CLI) SetInput(in io.Reader) {
	c.in = in
}

// RootCommand returns the root command with all subcommands attached
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "cdnstyle-cli",
		Short:        "Resolve image style derivatives to delivery URLs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetOut(c.out)
	if c.in != nil {
		root.SetIn(c.in)
	}
	root.PersistentFlags().StringVar(&c.stylesPath, "styles", "./test/fixtures/styles/styles.toml", "path to the image style configuration")
	root.PersistentFlags().BoolVar(&c.fallback, "fallback", false, "render missing attachments as the unstyled asset")

	root.AddCommand(c.urlCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.signCommand())

	return root
}

// Execute runs the root command
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (c *CLI) urlCommand() *cobra.Command {
	var (
		styleName    string
		metadataPath string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "url <uri>",
		Short: "Print the delivery URL of an asset rendered through a style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := c.renderer(metadataPath)
			if err != nil {
				return err
			}

			derivative, err := renderer.Render(cmd.Context(), styleName, args[0])
			if err != nil {
				return err
			}

			if !asJSON {
				_, err = fmt.Fprintln(c.out, derivative.URL)
				return err
			}

			encoder := json.NewEncoder(c.out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(derivative)
		},
	}

	cmd.Flags().StringVarP(&styleName, "style", "s", "", "image style, defaults to the style of a styled uri")
	cmd.Flags().StringVarP(&metadataPath, "metadata", "m", "./test/fixtures/file/metadata.json", "path to the attachment metadata file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full derivative as json")

	return cmd
}

func (c *CLI) batchCommand() *cobra.Command {
	var (
		styleName    string
		metadataPath string
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Print the delivery URLs of the asset uris read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := c.renderer(metadataPath)
			if err != nil {
				return err
			}

			var uris []string
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				if uri := strings.TrimSpace(scanner.Text()); uri != "" {
					uris = append(uris, uri)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read uris: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			workerQueue := queue.New(ctx, workers, func(ctx context.Context, uri string) (*style.Derivative, error) {
				return renderer.Render(ctx, styleName, uri)
			})
			go workerQueue.Run()

			results := make([]string, len(uris))
			g, gctx := errgroup.WithContext(ctx)
			for i, uri := range uris {
				i, uri := i, uri
				g.Go(func() error {
					derivative, err := workerQueue.Process(gctx, uri)
					switch {
					case err == nil:
						results[i] = derivative.URL
					case errors.Is(err, context.Canceled), errors.Is(err, queue.ErrShutdown):
						return err
					default:
						results[i] = "error: " + err.Error()
					}

					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			for i, uri := range uris {
				if _, err := fmt.Fprintf(c.out, "%s\t%s\n", uri, results[i]); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&styleName, "style", "s", "", "image style, defaults to the style of each styled uri")
	cmd.Flags().StringVarP(&metadataPath, "metadata", "m", "./test/fixtures/file/metadata.json", "path to the attachment metadata file")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "number of concurrent renders")

	return cmd
}

func (c *CLI) renderer(metadataPath string) (*style.Renderer, error) {
	registry, err := style.LoadFile(c.stylesPath)
	if err != nil {
		return nil, err
	}

	db, err := file.New(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	tracer := tracing.NewNoop(c.log, "cdnstyle-cli")
	return &style.Renderer{
		Styles:   registry,
		Loader:   metadata.NewCache(tracer, memory.New(0), db),
		Encoder:  registry.Encoder(delivery.DefaultFormats()),
		Tracer:   tracer,
		Log:      c.log,
		Fallback: c.fallback,
	}, nil
}

func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the configured image styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := style.LoadFile(c.stylesPath)
			if err != nil {
				return err
			}

			for _, name := range registry.Names() {
				s, err := registry.Get(name)
				if err != nil {
					return err
				}

				if _, err := fmt.Fprintf(c.out, "%s\t%s\t%d effects\n", s.Name, s.Label, len(s.Effects)); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func (c *CLI) signCommand() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "sign <path>",
		Short: "Add a derivative token to a service path such as /styles/thumbnail/SH123/at/abc123/photo.jpg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := &hmac.HMAC{Key: []byte(key)}
			if !h.Enabled() {
				return fmt.Errorf("a hmac key is required")
			}

			u, err := url.Parse(args[0])
			if err != nil {
				return err
			}

			signed, err := params.Sign(h, u.Path, u.Query())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.out, signed)
			return err
		},
	}

	cmd.Flags().StringVar(&key, "hmac-key", "", "hmac key the service is configured with")

	return cmd
}
