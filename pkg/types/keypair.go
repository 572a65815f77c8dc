package types

import "path/filepath"

const (
	// KeyAlgorithm is the only algorithm gitboot generates.
	KeyAlgorithm = "ed25519"
	// KeyFileName is the private key file name inside the ssh directory.
	KeyFileName = "id_ed25519"
	// SSHDirName is the key directory under the home directory.
	SSHDirName = ".ssh"
)

// KeypairRequest describes the key the provisioner ensures exists.
// Algorithm, passphrase and path are fixed.
type KeypairRequest struct {
	Algorithm  string
	Passphrase string
	Path       string
}

// DefaultKeypairRequest returns the request for ~/.ssh/id_ed25519 under home.
func DefaultKeypairRequest(home string) KeypairRequest {
	return KeypairRequest{
		Algorithm:  KeyAlgorithm,
		Passphrase: "",
		Path:       filepath.Join(home, SSHDirName, KeyFileName),
	}
}

// Dir returns the directory holding the key pair.
func (r KeypairRequest) Dir() string {
	return filepath.Dir(r.Path)
}

// PublicPath returns the path of the public half.
func (r KeypairRequest) PublicPath() string {
	return r.Path + ".pub"
}

// PublicKeyText is the content of the public key file.
type PublicKeyText string
