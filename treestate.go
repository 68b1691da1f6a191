// Package treestate is a fine-grained reactive state tree.
//
// A state tree stores one arbitrarily nested value (records, arrays,
// atomic values). Observers subscribe implicitly to exactly the
// sub-parts they read, and a structural update notifies only the
// observers whose sub-parts actually changed; there are no manual
// dependency declarations.
//
// # Usage
//
//	state := treestate.MustNew(map[string]any{
//	    "title": "inbox",
//	    "todos": []any{
//	        map[string]any{"text": "write docs", "done": false},
//	    },
//	})
//
//	title := state.Get("title")
//	obs := title.Observe(func(v any) {
//	    fmt.Println("title is now", v)
//	})
//	defer obs.Close()
//
//	state.Update(map[string]any{
//	    "title": "outbox",
//	    "todos": []any{
//	        map[string]any{"text": "write docs", "done": false},
//	    },
//	})
//	// Only the title observer runs: the todos sub-tree was unchanged,
//	// so none of its topics fired.
//
// References are lazy addresses: Get, At, and Index never touch the
// tree, and navigating through keys that don't exist yet is fine.
// Read, Use, and friends resolve the address on demand; Use registers
// the ambient subscriber against everything it read, which is how
// Observe re-runs precisely when its output could have changed.
package treestate
