package errors

import (
	"fmt"
	"math"
)

// NumericalInstabilityError は反復計算中にNaNまたは無限大が検出された
// 場合のエラーです。学習率が大きすぎる場合や入力に欠損値が含まれる場合に
// 発生します。
type NumericalInstabilityError struct {
	Op        string
	Values    []float64 // 検出された不安定な値（最大10個）
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("skgo: %s: numerical instability at iteration %d: %v",
		e.Op, e.Iteration, e.Values)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(op string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{Op: op, Values: values, Iteration: iteration}
	return WithStack(err)
}

// CheckNumericalStability は値にNaNまたは無限大が含まれていないか検査し、
// 含まれる場合はNumericalInstabilityErrorを返します。
func CheckNumericalStability(op string, values []float64, iteration int) error {
	var unstable []float64
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			unstable = append(unstable, v)
			if len(unstable) >= 10 {
				break
			}
		}
	}
	if unstable != nil {
		return NewNumericalInstabilityError(op, unstable, iteration)
	}
	return nil
}
