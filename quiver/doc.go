// Package quiver implements Quiver archives: many small named text records
// (typically PDB structures from a design pipeline) stored in one flat,
// line-oriented file, with optional per-record numeric scores.
//
// # Format
//
// A record starts with a tag line and extends to the next tag line or
// the end of the file:
//
//	QV_TAG <tag>
//	QV_SCORE <tag> <key>=<value>|<key>=<value>
//	<payload line>
//	...
//
// The score line is optional. Tags are whitespace-free and unique within an
// archive. Score values are decimal numbers kept as text.
//
// # Basic Usage
//
//	qv, err := quiver.Open("designs.qv", quiver.ModeWrite)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = qv.Append("design_1", pdbLines, "rmsd=1.2|plddt=88.1")
//
//	qv, err = quiver.Open("designs.qv", quiver.ModeRead)
//	lines, err := qv.Read("design_1")
//
// An Archive opened for reading supports Read, ReadSubset, Split and
// ExtractAll. An Archive opened for writing supports Append. The mode is
// fixed for the lifetime of the Archive.
//
// Whole-file operations work on a path: RenameTags rewrites tags in place
// (atomically, via a temporary file), ExtractScores writes a tab-separated
// score table next to the archive and BuildFromFiles turns PDB files into
// archive text.
//
// # Thread Safety
//
// An Archive is not safe for concurrent use and concurrent writers to the
// same file are not supported. Callers must serialize access.
package quiver
