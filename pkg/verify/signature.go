package verify

import (
	"os"

	minisign "github.com/jedisct1/go-minisign"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
)

// VerifySignature checks a minisign signature for the file at path. publicKey
// is either a base64 minisign public key string or a path to a public key
// file; sigPath points at the detached ".minisig" file.
func VerifySignature(path, sigPath, publicKey string) error {
	key, err := loadPublicKey(publicKey)
	if err != nil {
		return errors.Wrap(err, "load minisign public key")
	}
	sig, err := minisign.NewSignatureFromFile(sigPath)
	if err != nil {
		return errors.Wrap(err, "read minisign signature")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read signed file")
	}
	ok, err := key.Verify(data, sig)
	if err != nil {
		return errors.Wrap(err, errors.ErrSignatureInvalid.Error())
	}
	if !ok {
		return errors.ErrSignatureInvalid
	}
	return nil
}

func loadPublicKey(publicKey string) (minisign.PublicKey, error) {
	if _, err := os.Stat(publicKey); err == nil {
		return minisign.NewPublicKeyFromFile(publicKey)
	}
	return minisign.NewPublicKey(publicKey)
}
