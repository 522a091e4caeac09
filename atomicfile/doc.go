/*
Package atomicfile writes a file so that readers either see the old content
or the complete new content, never a partial write.

Data is written to a temporary file in the destination directory. Close()
syncs it and renames it over the destination. If any Write() failed, or the
file was aborted, the temporary file is removed and the destination is left
untouched.

Quiver uses it for every whole-file rewrite: renaming tags, writing split
chunks, score tables and extracted records:

	func writeScoreTable(path string, tbl *quiver.ScoreTable) error {
		w, err := atomicfile.New(path)
		if err != nil {
			return err
		}
		// calling Close() twice is a no-op
		defer w.Close()

		if err = tbl.WriteDelimited(w, "\t"); err != nil {
			return err
		}
		return w.Close()
	}

When a rewrite discovers mid-way that the result would be invalid, call
Abort(err) and the destination stays as it was.
*/
package atomicfile
