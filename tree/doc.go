/*
Package tree implements a forest of mutable nodes, kept in an arena.

Nodes carry a payload of a type parameter and are addressed by IDs, which
stay stable while a node is relocated from one parent to another. Deleting
a node recursively deletes its subtree and returns the arena slots for
re-use; IDs of deleted nodes are reliably recognized as stale, even after
their slot has been re-used.

Every node may be nested under a branch of its parent, i.e. under a field
index. Clients which do not need branches just use branch 0.

Traversal is synchronous: TopDown, Walk, DescendentsWith and AncestorWith
cover the needs of the categorizer.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'categorizer.tree'.
func tracer() tracing.Trace {
	return tracing.Select("categorizer.tree")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("categorizer.tree: "+msg, msgargs...)
		tracer().Errorf("%s", msg)
		panic(msg)
	}
}
