package backend

import (
	"os"

	"github.com/spf13/afero"
)

// DiskUsage sums the disk space allocated to some files or directory trees.
//
// Missing paths count for nothing.
func DiskUsage(fs afero.Fs, paths ...string) (int64, error) {
	var total int64
	for _, pth := range paths {
		err := afero.Walk(fs, pth, func(_ string, info os.FileInfo, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if !info.IsDir() {
				total += allocated(info)
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
