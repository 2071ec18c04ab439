package services

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

var (
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	tokenIDPattern = regexp.MustCompile(`^[0-9]+$`)
)

// IsValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
// Checksum casing is accepted but not enforced.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

type mintCall struct {
	to     common.Address
	amount *big.Int
}

type awardCall struct {
	student  common.Address
	tokenURI string
}

type updateURICall struct {
	tokenID     *big.Int
	newTokenURI string
}

func ValidateAddress(field, address string) (common.Address, error) {
	if address == "" {
		return common.Address{}, newValidationError(field, fmt.Sprintf("Falta el parametro '%s'.", field))
	}
	if !IsValidAddress(address) {
		return common.Address{}, newValidationError(field, "La direccion proporcionada no es valida.")
	}
	return common.HexToAddress(address), nil
}

// ValidateTokenID accepts a non-negative base-10 integer that fits uint256.
func ValidateTokenID(tokenID string) (*big.Int, error) {
	if !tokenIDPattern.MatchString(tokenID) {
		return nil, newValidationError("tokenId", fmt.Sprintf("El Token ID '%s' no es valido.", tokenID))
	}
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok || id.Cmp(maxUint256) > 0 {
		return nil, newValidationError("tokenId", fmt.Sprintf("El Token ID '%s' no es valido.", tokenID))
	}
	return id, nil
}

func validateMint(req types.MintRequest) (mintCall, error) {
	if req.To == "" || req.Amount == "" {
		field := "to"
		if req.To != "" {
			field = "amount"
		}
		return mintCall{}, newValidationError(field, "Faltan los parametros 'to' o 'amount'.")
	}

	to, err := ValidateAddress("to", req.To)
	if err != nil {
		return mintCall{}, err
	}

	amount, err := ParseUnits(req.Amount, TokenDecimals)
	if err != nil {
		message := fmt.Sprintf("La cantidad '%s' no es valida.", req.Amount)
		if errors.Is(err, ErrTooManyDecimals) {
			message = fmt.Sprintf("La cantidad '%s' tiene mas de %d decimales.", req.Amount, TokenDecimals)
		}
		return mintCall{}, &CallError{Kind: KindValidation, Field: "amount", Message: message, Err: err}
	}

	return mintCall{to: to, amount: amount}, nil
}

func validateAward(req types.AwardRequest) (awardCall, error) {
	if req.Student == "" || strings.TrimSpace(req.TokenURI) == "" {
		field := "student"
		if req.Student != "" {
			field = "tokenURI"
		}
		return awardCall{}, newValidationError(field, "Faltan los parametros 'student' o 'tokenURI'.")
	}
	if !IsValidAddress(req.Student) {
		return awardCall{}, newValidationError("student", "La direccion del estudiante no es valida.")
	}

	return awardCall{student: common.HexToAddress(req.Student), tokenURI: req.TokenURI}, nil
}

func validateUpdateURI(tokenID string, req types.UpdateURIRequest) (updateURICall, error) {
	id, err := ValidateTokenID(tokenID)
	if err != nil {
		return updateURICall{}, err
	}
	if strings.TrimSpace(req.NewTokenURI) == "" {
		return updateURICall{}, newValidationError("newTokenURI", "Falta el parametro 'newTokenURI' en el cuerpo de la peticion.")
	}

	return updateURICall{tokenID: id, newTokenURI: req.NewTokenURI}, nil
}
