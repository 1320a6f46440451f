/*
Package status manages file storage and edit status tracking for editrc.

	            +-------------+
	            |   Manager   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Files   |           |  Status  |
	| (Storage) |           | (Report) |
	+-----------+           +----------+

🎯 Purpose:
  - Backs the editor's storage collaborator (read, atomic write, exists, mkdir)
  - Writes and restores "<path>.backup" copies
  - Tracks the outcome of each edited file in a plan run
  - Reports progress through zerolog

⚡ Key Responsibilities:
  - Relative paths resolve against the manager's base directory; absolute
    paths are used unchanged
  - Writes go through a uniquely named temp file in the target's directory
    and a rename; a symlinked target is written through to the file it
    points at
  - Backups are overwritten on every request, never versioned

🔍 Example:

	mgr := status.New(baseDir)

	// File operations
	err := mgr.WriteFileAtomic(ctx, path, content)
	backupPath, err := mgr.BackupFile(ctx, path)

	// Status tracking
	mgr.TrackFile(ctx, path, status.FileInfo{Path: path, Status: status.StatusModified})
	files, err := mgr.ListFiles(ctx)
*/
package status
