package workspace

// Tree is the subset of the staged tree used by the workspace views.
type Tree interface {
	Read(filePath string) ([]byte, error)
	Write(filePath string, content []byte) error
	Delete(filePath string) error
	Rename(sourcePath string, destinationPath string) error
	Exists(filePath string) bool
	Children(directoryPath string) ([]string, error)
	Files(directoryPath string) ([]string, error)
}
