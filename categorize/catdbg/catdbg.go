/*
Package catdbg implements helpers to debug a categorized view.

The view is rendered as an indented tree, reading it exclusively through the
public interface of the categorizer, just like any other client would.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package catdbg

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/categorizer/categorize"
	"github.com/npillmayer/categorizer/model"
	tp "github.com/xlab/treeprint"
)

// String renders a categorized view as a tree. Buckets are shown with their label,
// rows with the display values of their fields.
func String(c *categorize.Categorizer) string {
	printer := tp.New()
	buckets := c.RowCount(categorize.Index{})
	header := fmt.Sprintf("View(%d buckets, key field %d)\n", buckets, c.KeyField())
	for b := 0; b < buckets; b++ {
		bucket := c.Index(b, 0, categorize.Index{})
		branch := printer.AddBranch(fmt.Sprintf("%v", c.Data(bucket, model.DisplayRole)))
		printRows(c, branch, bucket)
	}
	return header + printer.String()
}

// Fprint writes the rendering of a categorized view to w.
func Fprint(w io.Writer, c *categorize.Categorizer) error {
	_, err := io.WriteString(w, String(c))
	return err
}

func printRows(c *categorize.Categorizer, printer tp.Tree, parent categorize.Index) {
	rows := c.RowCount(parent)
	for r := 0; r < rows; r++ {
		row := c.Index(r, 0, parent)
		fields := c.FieldCount(parent)
		values := make([]string, fields)
		nested := false
		for f := 0; f < fields; f++ {
			values[f] = fmt.Sprintf("%v", c.Data(row.Sibling(f), model.DisplayRole))
			nested = nested || c.HasChildren(row.Sibling(f))
		}
		label := "(" + strings.Join(values, " | ") + ")"
		if !nested {
			printer.AddNode(label)
			continue
		}
		branch := printer.AddBranch(label)
		for f := 0; f < fields; f++ {
			if cell := row.Sibling(f); c.HasChildren(cell) {
				printRows(c, branch.AddMetaBranch(f, fmt.Sprintf("field %d", f)), cell)
			}
		}
	}
}
