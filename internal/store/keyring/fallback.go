package keyring

import "github.com/warpdl/cookiejar/pkg/logger"

// Fallback uses Primary and switches to Secondary when Primary fails, for
// example on hosts without a keyring service.
type Fallback struct {
	Primary   KeyStore
	Secondary KeyStore
	Log       logger.Logger
}

func (f *Fallback) warn(op string, err error) {
	if f.Log != nil {
		f.Log.Warning("keyring %s failed, using fallback key store: %v", op, err)
	}
}

func (f *Fallback) GetKey() ([]byte, error) {
	key, err := f.Primary.GetKey()
	if err == nil {
		return key, nil
	}
	f.warn("get", err)
	return f.Secondary.GetKey()
}

func (f *Fallback) SetKey() ([]byte, error) {
	key, err := f.Primary.SetKey()
	if err == nil {
		return key, nil
	}
	f.warn("set", err)
	return f.Secondary.SetKey()
}

// DeleteKey removes the key from both stores. It fails only when neither
// store could remove it.
func (f *Fallback) DeleteKey() error {
	errPrimary := f.Primary.DeleteKey()
	errSecondary := f.Secondary.DeleteKey()
	if errPrimary != nil && errSecondary != nil {
		return errPrimary
	}
	return nil
}
