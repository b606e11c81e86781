package onnx

import "fmt"

type TensorDType string

const (
	DTypeFloat32 TensorDType = "float32"
	DTypeInt64   TensorDType = "int64"
)

// Tensor is a runtime-neutral dense tensor holding float32 or int64 data.
type Tensor struct {
	dtype TensorDType
	shape []int64
	data  any
}

func NewTensor[T ~int64 | ~float32](data []T, shape []int64) (*Tensor, error) {
	count := int64(1)
	for i, dim := range shape {
		if dim < 1 {
			return nil, fmt.Errorf("shape[%d]=%d is not positive", i, dim)
		}
		count *= dim
	}
	if count != int64(len(data)) {
		return nil, fmt.Errorf("shape %v expects %d elements, got %d", shape, count, len(data))
	}

	t := &Tensor{shape: append([]int64(nil), shape...)}
	var zero T
	switch any(zero).(type) {
	case float32:
		t.dtype = DTypeFloat32
		converted := make([]float32, len(data))
		for i, v := range data {
			converted[i] = float32(v)
		}
		t.data = converted
	case int64:
		t.dtype = DTypeInt64
		converted := make([]int64, len(data))
		for i, v := range data {
			converted[i] = int64(v)
		}
		t.data = converted
	default:
		return nil, fmt.Errorf("unsupported tensor data type %T", zero)
	}
	return t, nil
}

func (t *Tensor) DType() TensorDType {
	return t.dtype
}

func (t *Tensor) Shape() []int64 {
	return append([]int64(nil), t.shape...)
}

func (t *Tensor) Data() any {
	switch v := t.data.(type) {
	case []float32:
		return append([]float32(nil), v...)
	case []int64:
		return append([]int64(nil), v...)
	default:
		return nil
	}
}

// Float32Data returns the backing data of a float32 tensor.
func (t *Tensor) Float32Data() ([]float32, error) {
	data, ok := t.data.([]float32)
	if !ok {
		return nil, fmt.Errorf("expected float32 tensor, got %s", t.dtype)
	}
	return data, nil
}

// Rows reinterprets a float32 tensor of rowCount*classCount elements as a
// per-position score matrix. Leading batch dimensions are ignored; only
// the element count is checked.
func (t *Tensor) Rows(rowCount, classCount int) ([][]float32, error) {
	data, err := t.Float32Data()
	if err != nil {
		return nil, err
	}
	if len(data) != rowCount*classCount {
		return nil, fmt.Errorf("tensor has %d elements, want %d rows x %d classes", len(data), rowCount, classCount)
	}
	rows := make([][]float32, rowCount)
	for i := range rows {
		rows[i] = data[i*classCount : (i+1)*classCount]
	}
	return rows, nil
}
