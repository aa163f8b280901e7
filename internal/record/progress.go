package record

// ProgressFunc is notified when an export moves on to records from a new log
// file. index counts distinct files seen so far, starting at 0.
type ProgressFunc func(index int, path string)

// FileTracker turns a stream of log paths into ProgressFunc calls, firing
// only when the path differs from the previous one.
type FileTracker struct {
	fn    ProgressFunc
	path  string
	index int
	seen  bool
}

// NewFileTracker returns a tracker calling fn; fn may be nil.
func NewFileTracker(fn ProgressFunc) *FileTracker {
	return &FileTracker{fn: fn, index: -1}
}

// Observe reports path. It returns true when path started a new file.
func (t *FileTracker) Observe(path string) bool {
	if t.seen && path == t.path {
		return false
	}
	t.seen = true
	t.path = path
	t.index++
	if t.fn != nil {
		t.fn(t.index, path)
	}
	return true
}
