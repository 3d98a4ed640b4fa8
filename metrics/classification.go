package metrics

import (
	"sort"

	"github.com/miku/skgo/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は正解率（正しく分類されたサンプルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// AccuracyMatrix は行列形式の入力（n×1）に対して正解率を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, err := toColumnVec("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	yPredVec, err := toColumnVec("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(yTrueVec, yPredVec)
}

// ZeroOneLoss は誤分類率（1 - Accuracy）を計算する
func ZeroOneLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix は混同行列を計算する
// 戻り値の行列 C は C[i][j] = クラスlabels[i]の実際のサンプルがクラスlabels[j]と
// 予測された数を表す。labelsは出現したクラスラベルの昇順リスト。
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (matrix [][]int, labels []int, err error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}

	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	// 出現するクラスを収集
	classSet := make(map[int]bool)
	for i := 0; i < n; i++ {
		classSet[int(yTrue.AtVec(i))] = true
		classSet[int(yPred.AtVec(i))] = true
	}
	labels = make([]int, 0, len(classSet))
	for class := range classSet {
		labels = append(labels, class)
	}
	sort.Ints(labels)

	index := make(map[int]int, len(labels))
	for i, class := range labels {
		index[class] = i
	}

	matrix = make([][]int, len(labels))
	for i := range matrix {
		matrix[i] = make([]int, len(labels))
	}
	for i := 0; i < n; i++ {
		actual := index[int(yTrue.AtVec(i))]
		predicted := index[int(yPred.AtVec(i))]
		matrix[actual][predicted]++
	}

	return matrix, labels, nil
}

// PrecisionRecallF1 はマクロ平均の適合率・再現率・F1スコアを計算する。
// あるクラスの予測が一つも存在しない場合、そのクラスの適合率は0として扱い、
// UndefinedMetricWarningを発生させる。
func PrecisionRecallF1(yTrue, yPred *mat.VecDense) (precision, recall, f1 float64, err error) {
	matrix, labels, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, 0, 0, err
	}

	var precisionSum, recallSum, f1Sum float64
	for i := range labels {
		tp := float64(matrix[i][i])
		var predicted, actual float64
		for j := range labels {
			predicted += float64(matrix[j][i])
			actual += float64(matrix[i][j])
		}

		var p, r float64
		if predicted == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples", 0.0))
		} else {
			p = tp / predicted
		}
		if actual == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true samples", 0.0))
		} else {
			r = tp / actual
		}

		var f float64
		if p+r > 0 {
			f = 2 * p * r / (p + r)
		}

		precisionSum += p
		recallSum += r
		f1Sum += f
	}

	k := float64(len(labels))
	return precisionSum / k, recallSum / k, f1Sum / k, nil
}

// toColumnVec はn×1行列をVecDenseに変換する
func toColumnVec(op string, m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if r == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	vec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		vec.SetVec(i, m.At(i, 0))
	}
	return vec, nil
}
