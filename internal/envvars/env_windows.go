//go:build windows

package envvars

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	hwndBroadcast   = 0xffff
	wmSettingChange = 0x001A
	smtoAbortIfHung = 0x0002
)

var (
	moduser32               = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeoutW = moduser32.NewProc("SendMessageTimeoutW")
)

// RegistryWriter stores variables under HKCU\Environment, the same place
// setx writes, and notifies running programs of the change
type RegistryWriter struct{}

// Default returns the platform env writer. envFile is unused on Windows.
func Default(envFile string) Writer {
	return RegistryWriter{}
}

// Write sets every variable as a REG_SZ value. Either all of them are
// written or none are.
func (RegistryWriter) Write(vars []Var) error {
	if err := ValidateNames(vars); err != nil {
		return err
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open HKCU\\Environment: %w", err)
	}
	defer key.Close()

	if err := writeAll(registryStore{key: key}, vars); err != nil {
		return err
	}

	// Values are already persisted; Explorer just won't pick them up until next logon
	broadcastSettingChange()
	return nil
}

// registryStore adapts a registry key to valueStore
type registryStore struct {
	key registry.Key
}

func (r registryStore) Get(name string) (string, bool, error) {
	value, _, err := r.key.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r registryStore) Set(name, value string) error {
	return r.key.SetStringValue(name, value)
}

func (r registryStore) Delete(name string) error {
	return r.key.DeleteValue(name)
}

func broadcastSettingChange() {
	param, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}
	var result uintptr
	procSendMessageTimeoutW.Call(
		uintptr(hwndBroadcast),
		uintptr(wmSettingChange),
		0,
		uintptr(unsafe.Pointer(param)),
		uintptr(smtoAbortIfHung),
		5000,
		uintptr(unsafe.Pointer(&result)),
	)
}
