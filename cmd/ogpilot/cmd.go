package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogpilot/ogpilot-go/config"
	"github.com/ogpilot/ogpilot-go/ogpilot"
)

// clientFactory builds the client used by a command. Tests pass their own
// to inject a transport.
type clientFactory func(cfg ogpilot.Config) (*ogpilot.Client, error)

func defaultFactory(cfg ogpilot.Config) (*ogpilot.Client, error) {
	return ogpilot.New(cfg)
}

type createOptions struct {
	title    string
	template string
	path     string
	params   []string
	headers  []string
	json     bool
	iat      bool
	root     bool
	dryRun   bool
	prefix   string
	envFiles []string
}

func newRootCmd(factory clientFactory) *cobra.Command {
	if factory == nil {
		factory = defaultFactory
	}

	root := &cobra.Command{
		Use:           "ogpilot",
		Short:         "Generate Open Graph images with OG Pilot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCreateCmd(factory), newInspectCmd(), newTemplatesCmd())
	return root
}

func newCreateCmd(factory clientFactory) *cobra.Command {
	o := &createOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an image and print its URL or metadata",
		Long: `Create signs the given parameters and calls the OG Pilot image endpoint.

Credentials are read from OG_PILOT_API_KEY and OG_PILOT_DOMAIN (or a .env
file). Use --dry-run to print the signed request URI without sending it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, o, factory)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.title, "title", "", "image title (required)")
	f.StringVar(&o.template, "template", "", "template name, see `ogpilot templates`")
	f.StringVar(&o.path, "path", "", "page path the image belongs to")
	f.StringArrayVar(&o.params, "param", nil, "extra parameter as key=value (repeatable)")
	f.StringArrayVar(&o.headers, "header", nil, "extra request header as key=value (repeatable)")
	f.BoolVar(&o.json, "json", false, "print image metadata as JSON instead of the URL")
	f.BoolVar(&o.iat, "iat", false, "stamp the token with the current time")
	f.BoolVar(&o.root, "default", false, "use \"/\" when no path is given")
	f.BoolVar(&o.dryRun, "dry-run", false, "print the signed request URI and exit")
	f.StringVar(&o.prefix, "env-prefix", config.DefaultPrefix, "prefix of the environment variables to read")
	f.StringArrayVar(&o.envFiles, "env-file", nil, "dotenv file to load (repeatable, default .env)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func runCreate(cmd *cobra.Command, o *createOptions, factory clientFactory) error {
	cfg, err := ogpilot.GetConfig(config.LoadOptions{Prefix: o.prefix, Files: o.envFiles})
	if err != nil {
		return err
	}
	client, err := factory(*cfg)
	if err != nil {
		return err
	}

	params, err := parsePairs(o.params)
	if err != nil {
		return fmt.Errorf("--param: %w", err)
	}
	headers, err := parsePairs(o.headers)
	if err != nil {
		return fmt.Errorf("--header: %w", err)
	}

	params["title"] = o.title
	if o.template != "" {
		tmpl, err := ogpilot.ParseTemplate(o.template)
		if err != nil {
			return err
		}
		params["template"] = string(tmpl)
	}
	if o.path != "" {
		params["path"] = o.path
	}

	opts := ogpilot.RequestOptions{JSON: o.json, Default: o.root}
	if len(headers) > 0 {
		opts.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			opts.Headers[k] = v.(string)
		}
	}
	if o.iat {
		opts.IssuedAt = time.Now()
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if o.dryRun {
		uri, err := client.BuildURI(ctx, params, opts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, uri.String())
		return err
	}

	res, err := client.Generate(ctx, params, opts)
	if err != nil {
		return err
	}
	if o.json {
		return writeJSON(out, res.Metadata)
	}
	_, err = fmt.Fprintln(out, res.URL)
	return err
}

func newInspectCmd() *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a signed token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := ogpilot.GetConfig()
				if err != nil {
					return err
				}
				secret = cfg.APIKey
			}
			if secret == "" {
				return fmt.Errorf("%w: API key is missing", ogpilot.ErrConfiguration)
			}
			claims, err := ogpilot.Decode(args[0], secret)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), claims)
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to OG_PILOT_API_KEY)")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range ogpilot.Templates {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), t); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// parsePairs turns ["k=v", ...] into params. The first "=" splits.
func parsePairs(pairs []string) (ogpilot.Params, error) {
	out := make(ogpilot.Params, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
