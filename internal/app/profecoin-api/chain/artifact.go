package chain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var ErrNoBytecode = errors.New("artifact has no deployable bytecode")

// Artifact is the subset of a hardhat compilation artifact this service reads.
type Artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if len(artifact.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", path)
	}

	return &artifact, nil
}

func (a *Artifact) ParsedABI() (abi.ABI, error) {
	return abi.JSON(bytes.NewReader(a.ABI))
}

func (a *Artifact) Code() ([]byte, error) {
	if strings.TrimPrefix(a.Bytecode, "0x") == "" {
		return nil, ErrNoBytecode
	}
	return hexutil.Decode(a.Bytecode)
}

// LoadABI parses the ABI of the artifact at path, or fallback when path is empty.
func LoadABI(path, fallback string) (abi.ABI, error) {
	if path == "" {
		return abi.JSON(strings.NewReader(fallback))
	}

	artifact, err := LoadArtifact(path)
	if err != nil {
		return abi.ABI{}, err
	}
	return artifact.ParsedABI()
}
