package classifier

import (
	"fmt"
	"strconv"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv guards the process-wide ONNX Runtime environment.
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes ONNX Runtime. Only the first call has any effect; later
// calls return the first call's result.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// onnxSession wraps a DynamicAdvancedSession for a BERT-style sequence
// classification model: token ids in, [batch, num_labels] logits out.
type onnxSession struct {
	session    *ort.DynamicAdvancedSession
	inputNames []string
	numLabels  int64 // <= 0 when the model declares a dynamic width
}

type sessionOptions struct {
	libPath  string
	device   Device
	deviceID int
	threads  int
}

func newONNXSession(modelPath string, so sessionOptions) (*onnxSession, error) {
	if err := initORT(so.libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	inputNames, err := validateInputs(inputs)
	if err != nil {
		return nil, err
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}
	outputName := outputs[0].Name
	dims := outputs[0].Dimensions
	if len(dims) != 2 {
		return nil, fmt.Errorf("onnx: expected 2D logits output, got %v", dims)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	if so.threads > 0 {
		if err := opts.SetIntraOpNumThreads(so.threads); err != nil {
			return nil, fmt.Errorf("onnx: set intra-op threads: %w", err)
		}
	}
	if err := opts.SetInterOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("onnx: set inter-op threads: %w", err)
	}
	if so.device == Accelerated {
		if err := appendCUDA(opts, so.deviceID); err != nil {
			return nil, err
		}
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputName}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create %s session: %w", so.device, err)
	}

	return &onnxSession{
		session:    session,
		inputNames: inputNames,
		numLabels:  dims[1],
	}, nil
}

// appendCUDA registers the CUDA execution provider. It fails when the
// runtime was built without CUDA or no device is usable.
func appendCUDA(opts *ort.SessionOptions, deviceID int) error {
	cuda, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return fmt.Errorf("onnx: cuda provider options: %w", err)
	}
	defer cuda.Destroy()

	if err := cuda.Update(map[string]string{"device_id": strconv.Itoa(deviceID)}); err != nil {
		return fmt.Errorf("onnx: cuda device %d: %w", deviceID, err)
	}
	if err := opts.AppendExecutionProviderCUDA(cuda); err != nil {
		return fmt.Errorf("onnx: append cuda provider: %w", err)
	}
	return nil
}

// validateInputs requires input_ids and attention_mask; token_type_ids is
// passed only when the model declares it (DistilBERT does not).
func validateInputs(inputs []ort.InputOutputInfo) ([]string, error) {
	nameSet := make(map[string]bool, len(inputs))
	for _, inp := range inputs {
		nameSet[inp.Name] = true
	}
	names := []string{"input_ids", "attention_mask"}
	for _, name := range names {
		if !nameSet[name] {
			return nil, fmt.Errorf("onnx: model missing required input %q", name)
		}
	}
	if nameSet["token_type_ids"] {
		names = append(names, "token_type_ids")
	}
	return names, nil
}

// infer runs the model on one encoded sequence and returns its logits.
func (s *onnxSession) infer(enc Encoding, numLabels int64) ([]float32, error) {
	seqLen := int64(enc.Len())
	shape := ort.NewShape(1, seqLen)

	feeds := map[string][]int64{
		"input_ids":      enc.InputIDs,
		"attention_mask": enc.AttentionMask,
		"token_type_ids": enc.TokenTypeIDs,
	}
	inputs := make([]ort.Value, 0, len(s.inputNames))
	for _, name := range s.inputNames {
		t, err := ort.NewTensor(shape, feeds[name])
		if err != nil {
			return nil, fmt.Errorf("onnx: failed to create %s tensor: %w", name, err)
		}
		defer t.Destroy()
		inputs = append(inputs, t)
	}

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, numLabels))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := s.session.Run(inputs, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	src := out.GetData()
	logits := make([]float32, len(src))
	copy(logits, src)
	return logits, nil
}

func (s *onnxSession) close() error {
	return s.session.Destroy()
}
