// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-confidential.
//
// go-confidential is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"os"

	"github.com/jeremyhahn/go-confidential/pkg/confidential"
	"github.com/jeremyhahn/go-confidential/pkg/encoding"
	"github.com/spf13/cobra"
)

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage confidential keys",
	Long:  `Export, fingerprint, sign with, and import confidential RSA keys`,
}

// keyPublicCmd prints the base64 public key export for an identity.
// The key pair is generated on first use.
var keyPublicCmd = &cobra.Command{
	Use:   "public <identity>",
	Short: "Print the base64-encoded public key",
	Long:  `Print the public key's PKIX DER encoding as base64, generating the key pair on first use`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := mustRSAKey(args[0])

		pem, _ := cmd.Flags().GetBool("pem")
		if pem {
			pub, err := key.PublicKey()
			if err != nil {
				handleError(err)
			}
			pemData, err := encoding.EncodePublicKeyPEM(pub)
			if err != nil {
				handleError(err)
			}
			fmt.Print(string(pemData))
			return
		}

		encoded, err := key.EncodedPublicKey()
		if err != nil {
			handleError(err)
		}
		fmt.Println(encoded)
	},
}

// keyJWKCmd prints the public key as an RFC 7517 JSON Web Key.
var keyJWKCmd = &cobra.Command{
	Use:   "jwk <identity>",
	Short: "Print the public key as a JSON Web Key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := mustRSAKey(args[0])

		jwkey, err := key.JWK()
		if err != nil {
			handleError(err)
		}
		data, err := jwkey.Marshal()
		if err != nil {
			handleError(err)
		}
		fmt.Println(string(data))
	},
}

// keyFingerprintCmd prints the SHA-256 fingerprint of the public key.
var keyFingerprintCmd = &cobra.Command{
	Use:   "fingerprint <identity>",
	Short: "Print the SHA-256 fingerprint of the public key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := mustRSAKey(args[0])

		fingerprint, err := key.Fingerprint()
		if err != nil {
			handleError(err)
		}
		fmt.Println(fingerprint)
	},
}

// keySignCmd signs a file with the identity's signature key.
var keySignCmd = &cobra.Command{
	Use:   "sign <identity> <file>",
	Short: "Sign a file (SHA256withRSA, base64 output)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := newStore()
		if err != nil {
			handleError(err)
		}
		key, err := confidential.NewSignatureKey(store, args[0])
		if err != nil {
			handleError(err)
		}

		message, err := os.ReadFile(args[1])
		if err != nil {
			handleError(fmt.Errorf("failed to read input file: %w", err))
		}

		signature, err := key.Sign(message)
		if err != nil {
			handleError(err)
		}
		fmt.Println(signature)
	},
}

// keyVerifyCmd verifies a base64 signature over a file.
var keyVerifyCmd = &cobra.Command{
	Use:   "verify <identity> <file> <signature>",
	Short: "Verify a base64 SHA256withRSA signature over a file",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := newStore()
		if err != nil {
			handleError(err)
		}
		key, err := confidential.NewSignatureKey(store, args[0])
		if err != nil {
			handleError(err)
		}

		message, err := os.ReadFile(args[1])
		if err != nil {
			handleError(fmt.Errorf("failed to read input file: %w", err))
		}

		if err := key.Verify(message, args[2]); err != nil {
			handleError(err)
		}
		fmt.Println("OK")
	},
}

// keyImportCmd imports an externally generated PEM private key into the
// confidential store under an identity. Encrypted PKCS#8 input is
// supported via --passin.
var keyImportCmd = &cobra.Command{
	Use:   "import <identity> <pem-file>",
	Short: "Import a PEM private key into the confidential store",
	Long: `Import an externally generated RSA private key. The key is re-encoded
as PKCS#8 DER and sealed into the confidential store; the PEM source
should be deleted afterwards.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := newStore()
		if err != nil {
			handleError(err)
		}

		pemData, err := os.ReadFile(args[1])
		if err != nil {
			handleError(fmt.Errorf("failed to read PEM file: %w", err))
		}

		passin, _ := cmd.Flags().GetString("passin")
		if err := confidential.ImportRSAKey(store, args[0], pemData, []byte(passin)); err != nil {
			handleError(err)
		}

		newLogger().Infof("imported key %s", args[0])
	},
}

// keyListCmd lists the identities present in the confidential store.
var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List identities in the confidential store",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := newStore()
		if err != nil {
			handleError(err)
		}

		identities, err := store.List("")
		if err != nil {
			handleError(err)
		}
		for _, identity := range identities {
			fmt.Println(identity)
		}
	},
}

// mustRSAKey builds an RSAKey for the identity or exits.
func mustRSAKey(identity string) *confidential.RSAKey {
	store, err := newStore()
	if err != nil {
		handleError(err)
	}
	key, err := confidential.NewRSAKey(store, identity)
	if err != nil {
		handleError(err)
	}
	return key
}

func init() {
	keyPublicCmd.Flags().Bool("pem", false, "output PEM instead of bare base64")
	keyImportCmd.Flags().String("passin", "", "password for encrypted PKCS#8 input")

	keyCmd.AddCommand(keyPublicCmd)
	keyCmd.AddCommand(keyJWKCmd)
	keyCmd.AddCommand(keyFingerprintCmd)
	keyCmd.AddCommand(keySignCmd)
	keyCmd.AddCommand(keyVerifyCmd)
	keyCmd.AddCommand(keyImportCmd)
	keyCmd.AddCommand(keyListCmd)
}
