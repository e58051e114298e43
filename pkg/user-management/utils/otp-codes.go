package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	OTP_CODE_MIN = 100000
	OTP_CODE_MAX = 999999
)

// GenerateOTPCode draws a uniformly random 6-digit code (100000-999999 inclusive)
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(OTP_CODE_MAX-OTP_CODE_MIN+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+OTP_CODE_MIN, 10), nil
}
