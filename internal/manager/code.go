package manager

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"

	managererrors "go-workforce/internal/manager/errors"
)

// managerCodePattern accepts any MGR-digits code so historically issued
// codes of other lengths keep validating; newly generated codes always
// carry five digits.
var managerCodePattern = regexp.MustCompile(`^MGR-\d+$`)

const (
	generatedCodeMax    = 100000
	maxGenerateAttempts = 10
)

func CodeFormatValid(code string) bool {
	return managerCodePattern.MatchString(code)
}

type codeExistenceChecker interface {
	ManagerCodeExists(ctx context.Context, code string) (bool, error)
}

// generateManagerCode draws random MGR-NNNNN codes until one is free.
// The code space is small enough that collisions happen in real data, so
// every draw is checked against the store.
func generateManagerCode(ctx context.Context, store codeExistenceChecker) (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code := fmt.Sprintf("MGR-%05d", rand.Intn(generatedCodeMax))
		exists, err := store.ManagerCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", managererrors.ErrCodeSpaceExhausted
}
