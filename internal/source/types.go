package source

// FileID identifies a source file known to the caller.
type FileID uint32
