//go:build !linux && !darwin

package disk

import "errors"

func statfsFree(string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
