package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	xt "github.com/reoring/xtended"
	"github.com/reoring/xtended/driver/sonic"
)

// bag declares no fields: every selected key of the input lands in its
// extensions.
type bag struct {
	xt.Extension
}

type options struct {
	prefix  string
	strict  bool
	driver  string
	verbose bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:           "xtended",
		Short:         "Inspect extension fields of JSON documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.prefix, "prefix", xt.DefaultPrefix, "extension key prefix")
	root.PersistentFlags().StringVar(&o.driver, "driver", "go-json", "JSON driver (go-json|sonic)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log dropped extension keys to stderr")

	ext := &cobra.Command{
		Use:   "ext [file]",
		Short: "Print the extension fields of an object, or of every object in an array",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out, err := extensionsOf(data, o, stderr)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return err
			}
			_, err = fmt.Fprintln(stdout, string(out))
			return err
		},
	}
	ext.Flags().BoolVar(&o.strict, "strict", false, "fail on duplicate keys before decoding")

	check := &cobra.Command{
		Use:   "check [file]",
		Short: "Report duplicate object keys anywhere in the document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			iss, err := xt.CheckDuplicateKeys(data, xt.Opt{Strictness: xt.Strictness{OnDuplicateKey: xt.Warn}})
			if err != nil {
				fmt.Fprintln(stderr, err)
				return err
			}
			for _, it := range iss {
				fmt.Fprintf(stdout, "%s\t%s\t%s\n", it.Code, it.Path, it.Message)
			}
			if len(iss) > 0 {
				return errors.New("duplicate keys found")
			}
			return nil
		},
	}

	root.AddCommand(ext, check)
	return root
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

func extensionsOf(data []byte, o options, stderr io.Writer) ([]byte, error) {
	opt := xt.Opt{Filter: xt.PrefixFilter(o.prefix)}
	switch o.driver {
	case "go-json", "":
	case "sonic":
		opt.Driver = sonic.Driver()
	default:
		return nil, fmt.Errorf("unknown driver %q", o.driver)
	}
	if o.verbose {
		opt.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if o.strict {
		opt.Strictness.OnDuplicateKey = xt.Error
		if _, err := xt.CheckDuplicateKeys(data, opt); err != nil {
			return nil, err
		}
	}
	p := xt.NewPosition(data)
	if p.IsArray() {
		recs, err := xt.UnmarshalSlice[bag](data, opt)
		if err != nil {
			return nil, err
		}
		all := make([]xt.Value, len(recs))
		for i, r := range recs {
			all[i] = xt.Object(r.X)
		}
		return xt.EncodeValue(xt.Array(all...), opt)
	}
	rec, err := xt.Unmarshal[bag](data, opt)
	if err != nil {
		return nil, err
	}
	return xt.EncodeValue(xt.Object(rec.X), opt)
}
