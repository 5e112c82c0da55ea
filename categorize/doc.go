/*
Package categorize derives a grouped, two-level view from a hierarchical source.

A Categorizer partitions the top-level rows of a model.Source into categories
(buckets) by the value of a key field. The view it exposes has the buckets at
depth 0, each carrying a single read-only field: the key, rendered as a label.
The rows of a bucket are found at depth 1, in ascending order of their source
rows, and every nested source row is mirrored below them, one to one.

The grouping is kept up to date incrementally. Rows inserted into the source are
filed into their bucket; when the key of a row changes, the row moves to another
bucket; buckets are created as needed and dropped as soon as they run empty.
Every change of the view is announced to observers as a pair of Begin…/End…
events. Observers may inspect the view before a Begin and after an End event;
the view is consistent at both instants, with no row visible twice or missing.

The shape of the view is derived from the source and cannot be edited directly.
Removing rows is the only structural edit accepted, and it is forwarded to the
source. Reads and writes of fields at depth ≥ 1 are forwarded as well.

Key Policy

Rows are filed by comparing keys with an equality predicate (default: plain
equality), and bucket labels are produced by a label function (default: the key
itself). Both are supplied at construction time with WithEquality and WithLabel.
The key is read from the source with a configurable field and role (see
WithKeyField, WithKeyRole); changing either rebuilds the view.

Consistency

Categorizers constructed with WithConsistencyChecks verify all of their
invariants after every source notification and panic on violations. This is
meant for tests and debugging; Verify may be called at any time as well.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package categorize

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'categorizer.engine'.
func tracer() tracing.Trace {
	return tracing.Select("categorizer.engine")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("categorizer: "+msg, msgargs...)
		tracer().Errorf("%s", msg)
		panic(msg)
	}
}
