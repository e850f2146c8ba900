//go:build windows

package atomic

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// isSamePartition compares the volume serial numbers of src and the
// directory that will hold dst.
func isSamePartition(src, dst string) (bool, error) {
	srcID, err := volumeSerial(src)
	if err != nil {
		return false, fmt.Errorf("failed to get source volume information: %w", err)
	}
	dstID, err := volumeSerial(filepath.Dir(dst))
	if err != nil {
		return false, fmt.Errorf("failed to get destination volume information: %w", err)
	}
	return srcID == dstID, nil
}

func volumeSerial(path string) (uint32, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	volume := filepath.VolumeName(abs)
	if volume == "" {
		return 0, fmt.Errorf("no volume name in %q", abs)
	}
	var id uint32
	err = windows.GetVolumeInformation(windows.StringToUTF16Ptr(volume+`\`), nil, 0, &id, nil, nil, nil, 0)
	return id, err
}
