//go:build !linux && !darwin && !windows

package hotkey

func openSystemRegistrar() (Registrar, error) {
	return nil, ErrUnavailable
}
