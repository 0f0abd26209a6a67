// Package affected wires change detection and dependency ordering into a
// single run: changed files come in through a ChangeSource, the modified
// projects and their build order go out through an OutputSink.
//
// Typical use:
//
//	res, err := affected.Run(ctx, source, sink, catalog, affected.Options{})
//
// A run either writes a complete Result or nothing at all.
package affected
