package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/roach88/valvegear/internal/codec"
	"github.com/roach88/valvegear/internal/param"
)

// DomainInputs prefixes the inputs hash. The version suffix allows a future
// change of encoding.
const DomainInputs = "valvegear/inputs/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InputsHash identifies a set of input values by the text that would be
// saved for them.
func InputsHash(in param.Inputs) (string, error) {
	m := param.New()
	m.SetInputValues(in)

	var buf bytes.Buffer
	if err := codec.WriteInputs(&buf, m); err != nil {
		return "", err
	}
	return hashWithDomain(DomainInputs, buf.Bytes()), nil
}
