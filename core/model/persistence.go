package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/miku/skgo/pkg/errors"
)

// SaveModel はモデルをgob形式でファイルに保存する。
// gobの仕様上、エクスポートされたフィールドのみが保存される。
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScalerDefault()
//	// ... 学習 ...
//	err := model.SaveModel(scaler, "scaler.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "skgo: SaveModel: creating %s", filename)
	}
	defer file.Close()

	return SaveModelToWriter(model, file)
}

// LoadModel はファイルからモデルを読み込む
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "skgo: LoadModel: opening %s", filename)
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルをio.Writerに書き出す
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrap(err, "skgo: encoding model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからモデルを読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrap(err, "skgo: decoding model")
	}
	return nil
}
