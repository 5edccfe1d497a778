// Package mocks provides shared fn-field mocks for the generation and cloud
// storage interfaces.
//
// Set the function field for the behaviour a test needs:
//
//	gen := &mocks.MockGenerator{
//	    GenerateFn: func(ctx context.Context, topic string, count int) ([]domain.Pair, error) {
//	        return []domain.Pair{{Source: "Haus", Target: "casa"}}, nil
//	    },
//	}
//
// Mocks record their calls so tests can assert on the arguments afterwards.
package mocks
