package mcpserver

import (
	"fmt"
	"os"
)

// openSourceFile opens an audio file supplied by the MCP client, with a
// friendlier error than the raw *PathError.
func openSourceFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("audio file does not exist: %s", path)
		}
		return nil, fmt.Errorf("cannot open audio file %s: %v", path, err)
	}
	return f, nil
}
