package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"

	"github.com/rkulik/fractal/internal/config"
	"github.com/rkulik/fractal/internal/document"
	"github.com/rkulik/fractal/internal/input"
	"github.com/rkulik/fractal/internal/logging"
	"github.com/rkulik/fractal/pkg/engine"
	"github.com/rkulik/fractal/pkg/fractal"
	"github.com/rkulik/fractal/pkg/manager"
	"github.com/rkulik/fractal/pkg/pagination"
	"github.com/rkulik/fractal/pkg/serializer"
)

type outputFormat enumflag.Flag

const (
	formatJSON outputFormat = iota
	formatYAML
	formatTable
)

var outputFormatIDs = map[outputFormat][]string{
	formatJSON:  {"json"},
	formatYAML:  {"yaml"},
	formatTable: {"table"},
}

type serializerName enumflag.Flag

const (
	serializerData serializerName = iota
	serializerArray
)

var serializerIDs = map[serializerName][]string{
	serializerData:  {serializer.NameDataArray},
	serializerArray: {serializer.NameArray},
}

type renderParams struct {
	data        string
	headers     map[string]string
	collection  bool
	key         string
	includes    []string
	excludes    []string
	fields      map[string]string
	meta        map[string]string
	page        int
	perPage     int
	total       int
	urlTemplate string
	cursor      cursorParams
	serializer  serializerName
	format      outputFormat
	pretty      bool
	patch       string
	configFiles []string
}

type cursorParams struct {
	current string
	prev    string
	next    string
}

func newRenderCommand() *cobra.Command {
	var params renderParams

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a JSON or YAML document",
		Long: `Render a JSON or YAML document.

Scalar fields are always rendered. Nested objects and lists of objects are
relations that are only rendered when included:

  fractal render --data users.json --include posts:limit(5),posts.author

A document that is a list is rendered as a collection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(params.configFiles)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("serializer") {
				cfg.Serializer = serializerIDs[params.serializer][0]
			}
			if flags.Changed("format") {
				cfg.Output.Format = outputFormatIDs[params.format][0]
			}
			if flags.Changed("pretty") {
				cfg.Output.Pretty = params.pretty
			}

			return render(cmd.Context(), cfg, params, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	params.addFlags(cmd.Flags())

	return cmd
}

func (p *renderParams) addFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&p.data, "data", "d", input.Stdin, "document to render: a file, an http(s) URL or - for stdin")
	flags.StringToStringVar(&p.headers, "header", nil, "header sent when fetching the document from a URL, e.g. Authorization='Bearer token'")
	flags.BoolVar(&p.collection, "collection", false, "require the document to be a list")
	flags.StringVarP(&p.key, "key", "k", "", "resource key of the document, used by fieldsets and the array serializer")
	flags.StringSliceVarP(&p.includes, "include", "i", nil, "relations to include, e.g. posts.comments or posts:limit(5|0)")
	flags.StringSliceVarP(&p.excludes, "exclude", "x", nil, "relations to exclude")
	flags.StringToStringVar(&p.fields, "fields", nil, "fields to render per resource key, e.g. users=id,name (repeatable)")
	flags.StringToStringVar(&p.meta, "meta", nil, "metadata to add, e.g. version=2 (repeatable)")
	flags.IntVar(&p.page, "page", 0, "current page, enables offset pagination")
	flags.IntVar(&p.perPage, "per-page", 0, "items per page, enables offset pagination")
	flags.IntVar(&p.total, "total", 0, "total number of items (default: length of the document)")
	flags.StringVar(&p.urlTemplate, "url-template", "", "page link template, "+pagination.PagePlaceholder+" is replaced by the page number")
	flags.StringVar(&p.cursor.current, "cursor-current", "", "current cursor, enables cursor pagination")
	flags.StringVar(&p.cursor.prev, "cursor-prev", "", "previous cursor")
	flags.StringVar(&p.cursor.next, "cursor-next", "", "next cursor")
	flags.Var(enumflag.New(&p.serializer, "serializer", serializerIDs, enumflag.EnumCaseInsensitive), "serializer", "output envelope: data or array")
	flags.VarP(enumflag.New(&p.format, "format", outputFormatIDs, enumflag.EnumCaseInsensitive), "format", "o", "output format: json, yaml or table")
	flags.BoolVar(&p.pretty, "pretty", false, "indent JSON output")
	flags.StringVar(&p.patch, "patch", "", "JSON patch file applied to the output")
	flags.StringSliceVarP(&p.configFiles, "config", "c", nil, "configuration files, merged in order")
}

func render(ctx context.Context, cfg *config.Root, params renderParams, stdin io.Reader, stdout, stderr io.Writer) error {
	logCfg, err := cfg.LoggerConfig()
	if err != nil {
		return err
	}
	logCfg.Output = stderr
	log := logging.NewLogger(logCfg)

	ser, err := cfg.SerializerImpl()
	if err != nil {
		return err
	}

	m := manager.New().
		WithSerializer(ser).
		WithRecursionLimit(cfg.RecursionLimit).
		WithLogger(log)

	doc, err := input.New(params.data).
		WithHeaders(params.headers).
		WithStdin(stdin).
		Load(ctx)
	if err != nil {
		return err
	}

	f, err := build(fractal.New(m), doc, params)
	if err != nil {
		return err
	}

	log.Debugf("Rendering %s as %s.", params.data, cfg.Output.Format)

	switch cfg.Output.Format {
	case "yaml":
		out, err := f.ToYAML()
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, out)
		return err

	case "table":
		out, err := f.ToMap()
		if err != nil {
			return err
		}
		return writeTable(stdout, out, params.key)
	}

	var flags engine.JSONFlags
	if cfg.Output.Pretty {
		flags |= engine.JSONPrettyPrint
	}
	out, err := f.ToJSON(flags)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}

// build configures f from the document and the command line.
func build(f *fractal.Fractal, doc any, params renderParams) (*fractal.Fractal, error) {
	switch x := doc.(type) {
	case nil:
		return nil, errors.New("document is empty")
	case []any:
		f.Collection(x, document.New(x), params.key)
		if p := paginator(params, len(x)); p != nil {
			f.WithPaginator(p)
		}
		if c := cursor(params, len(x)); c != nil {
			f.WithCursor(c)
		}
	default:
		if params.collection {
			return nil, fmt.Errorf("document is a %T, not a list", doc)
		}
		f.Item(x, document.New(x), params.key)
	}

	if len(params.meta) > 0 {
		meta := make(map[string]any, len(params.meta))
		for k, v := range params.meta {
			meta[k] = metaValue(v)
		}
		f.WithMeta(meta)
	}

	if len(params.includes) > 0 {
		f.WithIncludes(params.includes...)
	}
	if len(params.excludes) > 0 {
		f.WithExcludes(params.excludes...)
	}
	if len(params.fields) > 0 {
		f.WithFieldsets(params.fields)
	}

	if params.patch != "" {
		bs, err := os.ReadFile(params.patch)
		if err != nil {
			return nil, fmt.Errorf("failed to read patch: %w", err)
		}
		p, err := fractal.DecodePatch(bs)
		if err != nil {
			return nil, err
		}
		f.WithPatch(p)
	}

	return f, nil
}

func paginator(params renderParams, n int) pagination.Paginator {
	if params.page == 0 && params.perPage == 0 {
		return nil
	}

	total := params.total
	if total == 0 {
		total = n
	}
	size := params.perPage
	if size == 0 {
		size = n
	}

	return &pagination.OffsetPaginator{
		Page:        max(params.page, 1),
		Size:        size,
		Items:       total,
		Returned:    n,
		URLTemplate: params.urlTemplate,
	}
}

func cursor(params renderParams, n int) pagination.Cursor {
	if params.cursor.current == "" {
		return nil
	}
	return &pagination.CursorPage{
		CurrentToken: params.cursor.current,
		PrevToken:    optional(params.cursor.prev),
		NextToken:    optional(params.cursor.next),
		Size:         n,
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// metaValue decodes scalar YAML values, so version=2 yields a number.
func metaValue(s string) any {
	v, err := input.Decode([]byte(s))
	if err != nil || v == nil {
		return s
	}
	return v
}
