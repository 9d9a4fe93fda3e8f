package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/crudkit/internal/inventory"
	"github.com/mesh-intelligence/crudkit/pkg/outcome"
)

// itemFlags holds the field flags shared by create, update and patch.
type itemFlags struct {
	key      string
	name     string
	sku      string
	quantity int
	price    float64
	tags     []string
}

func (f *itemFlags) register(fs *pflag.FlagSet, withKey bool) {
	if withKey {
		fs.StringVar(&f.key, "key", "", "external key (default: generated)")
	}
	fs.StringVar(&f.name, "name", "", "item name")
	fs.StringVar(&f.sku, "sku", "", "stock keeping unit")
	fs.IntVar(&f.quantity, "quantity", 0, "quantity in stock")
	fs.Float64Var(&f.price, "price", 0, "unit price")
	fs.StringSliceVar(&f.tags, "tag", nil, "tag (repeatable)")
}

func (f *itemFlags) dto() (inventory.ItemDTO, error) {
	dto := inventory.ItemDTO{
		Name:     f.name,
		SKU:      f.sku,
		Quantity: f.quantity,
		Price:    f.price,
		Tags:     f.tags,
	}
	if f.key != "" {
		key, err := uuid.Parse(f.key)
		if err != nil {
			return dto, userError(fmt.Errorf("invalid key %q: %w", f.key, err))
		}
		dto.Key = key
	}
	return dto, nil
}

// patch sets only the fields whose flags were given.
func (f *itemFlags) patch(fs *pflag.FlagSet) inventory.ItemPatch {
	var p inventory.ItemPatch
	if fs.Changed("name") {
		p.Name = &f.name
	}
	if fs.Changed("sku") {
		p.SKU = &f.sku
	}
	if fs.Changed("quantity") {
		p.Quantity = &f.quantity
	}
	if fs.Changed("price") {
		p.Price = &f.price
	}
	if fs.Changed("tag") {
		p.Tags = f.tags
	}
	return p
}

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage inventory items",
	}
	cmd.PersistentFlags().BoolVar(&a.envelope, "envelope", false, "print the whole outcome (kind, value, message) as JSON")
	cmd.AddCommand(
		newItemCreateCmd(a),
		newItemGetCmd(a),
		newItemKeyCmd(a),
		newItemListCmd(a),
		newItemPageCmd(a),
		newItemUpdateCmd(a),
		newItemPatchCmd(a),
		newItemDeleteCmd(a),
		newItemExportCmd(a),
		newItemImportCmd(a),
	)
	return cmd
}

func newItemCreateCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dto, err := f.dto()
			if err != nil {
				return err
			}
			return a.withItems(func(inv *inventory.Inventory) error {
				return report(cmd.OutOrStdout(), a.envelope, inv.Items.Create(cmd.Context(), dto), "")
			})
		},
	}
	f.register(cmd.Flags(), true)
	return cmd
}

func newItemGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show the item with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return userError(fmt.Errorf("invalid id %q", args[0]))
			}
			return a.withItems(func(inv *inventory.Inventory) error {
				return report(cmd.OutOrStdout(), a.envelope, inv.Items.Get(cmd.Context(), id), "")
			})
		},
	}
}

func newItemKeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "key <key>",
		Short: "Show the item with the given external key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0])
			if err != nil {
				return err
			}
			return a.withItems(func(inv *inventory.Inventory) error {
				return report(cmd.OutOrStdout(), a.envelope, inv.Items.GetByKey(cmd.Context(), key), "")
			})
		},
	}
}

func newItemListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withItems(func(inv *inventory.Inventory) error {
				return report(cmd.OutOrStdout(), a.envelope, inv.Items.List(cmd.Context()), "[]")
			})
		},
	}
}

func newItemPageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page <page> [limit]",
		Short: "List one zero-based page of items",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[0])
			if err != nil {
				return userError(fmt.Errorf("invalid page %q", args[0]))
			}
			limit := -1
			if len(args) == 2 {
				if limit, err = strconv.Atoi(args[1]); err != nil {
					return userError(fmt.Errorf("invalid limit %q", args[1]))
				}
			}
			return a.withItems(func(inv *inventory.Inventory) error {
				return report(cmd.OutOrStdout(), a.envelope, inv.Items.Page(cmd.Context(), page, limit), "")
			})
		},
	}
}

func newItemUpdateCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "update <key>",
		Short: "Replace the item with the given key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.key = args[0]
			dto, err := f.dto()
			if err != nil {
				return err
			}
			return a.withItems(func(inv *inventory.Inventory) error {
				return report(cmd.OutOrStdout(), a.envelope, inv.Items.Update(cmd.Context(), dto), "")
			})
		},
	}
	f.register(cmd.Flags(), false)
	return cmd
}

func newItemPatchCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "patch <key>",
		Short: "Change the given fields of the item with the given key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0])
			if err != nil {
				return err
			}
			patch := f.patch(cmd.Flags())
			return a.withItems(func(inv *inventory.Inventory) error {
				return report(cmd.OutOrStdout(), a.envelope, inv.Items.Patch(cmd.Context(), key, patch), "")
			})
		},
	}
	f.register(cmd.Flags(), false)
	return cmd
}

func newItemDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete the item with the given key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0])
			if err != nil {
				return err
			}
			return a.withItems(func(inv *inventory.Inventory) error {
				return report(cmd.OutOrStdout(), a.envelope, inv.Items.Delete(cmd.Context(), key), "deleted "+key.String())
			})
		},
	}
}

func newItemExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all items to a JSON Lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withItems(func(inv *inventory.Inventory) error {
				n, err := inv.Export(cmd.Context(), args[0])
				if err != nil {
					return sysError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d items to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newItemImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Insert the items of a JSON Lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withItems(func(inv *inventory.Inventory) error {
				res, err := inv.Import(cmd.Context(), args[0])
				if err != nil {
					return sysError(err)
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

// withItems opens the inventory for the duration of fn.
func (a *app) withItems(fn func(inv *inventory.Inventory) error) error {
	inv, err := inventory.Open(a.config, a.logger)
	if err != nil {
		return sysError(fmt.Errorf("open inventory: %w", err))
	}
	defer inv.Close()
	return fn(inv)
}

// report prints a value outcome as JSON and converts failures to exit
// errors. emptyText is printed for an Empty outcome. With envelope set the
// outcome itself is printed, whatever its kind.
func report[T any](w io.Writer, envelope bool, res outcome.Outcome[T], emptyText string) error {
	if envelope {
		if err := printJSON(w, res); err != nil {
			return err
		}
	}
	switch res.Kind() {
	case outcome.KindValue:
		if envelope {
			return nil
		}
		v, _ := res.Value()
		return printJSON(w, v)
	case outcome.KindEmpty:
		if !envelope && emptyText != "" {
			fmt.Fprintln(w, emptyText)
		}
		return nil
	case outcome.KindNotFound, outcome.KindInvalid, outcome.KindConflict:
		return userError(fmt.Errorf("%s: %s", res.Kind(), res.Message()))
	}
	return sysError(fmt.Errorf("%s: %s", res.Kind(), res.Message()))
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("encode output: %w", err))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func parseKey(s string) (uuid.UUID, error) {
	key, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, userError(fmt.Errorf("invalid key %q: %w", s, err))
	}
	return key, nil
}
