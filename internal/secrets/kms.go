package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

var ErrUnknownCiphertextType = errors.New("unknown cipher text type")

// KMSAPI is the part of the KMS client used for encrypt and decrypt.
type KMSAPI interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// Cipher encrypts values for the function environment and decrypts them
// again inside the function.
type Cipher struct {
	client KMSAPI
}

func NewCipher(client KMSAPI) *Cipher {
	return &Cipher{client: client}
}

// Encrypt encrypts plaintext under keyID and returns the ciphertext in the
// form stored in the function environment.
func (c *Cipher) Encrypt(ctx context.Context, keyID, plaintext string) (string, error) {
	out, err := c.client.Encrypt(ctx, &kms.EncryptInput{
		KeyId:     aws.String(keyID),
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return "", fmt.Errorf("encrypt with key %s: %w", keyID, err)
	}
	if len(out.CiphertextBlob) == 0 {
		return "", fmt.Errorf("%w: empty ciphertext from key %s", ErrUnknownCiphertextType, keyID)
	}
	return EncodeCiphertext(out.CiphertextBlob)
}

// Decrypt reverses Encrypt. The key is taken from the ciphertext itself.
func (c *Cipher) Decrypt(ctx context.Context, encoded string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode KMS data as base64: %w", err)
	}

	out, err := c.client.Decrypt(ctx, &kms.DecryptInput{
		CiphertextBlob: blob,
	})
	if err != nil {
		return "", fmt.Errorf("decrypt KMS value: %w", err)
	}
	return string(out.Plaintext), nil
}

// EncodeCiphertext renders a ciphertext for storage: byte blobs become
// standard base64, strings pass through unchanged.
func EncodeCiphertext(v any) (string, error) {
	switch blob := v.(type) {
	case []byte:
		if len(blob) == 0 {
			return "", fmt.Errorf("%w: empty byte blob", ErrUnknownCiphertextType)
		}
		return base64.StdEncoding.EncodeToString(blob), nil
	case string:
		return blob, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownCiphertextType, v)
	}
}
