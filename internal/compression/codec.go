package compression

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// codecCore buffers everything written to the writer side, runs the codec
// once the writer is closed and serves the result on the reader side.
type codecCore struct {
	isInputBufferClosed bool
	lock                sync.Mutex
	inputBuffer         *bytes.Buffer
	outputBuffer        *bytes.Buffer
	transform           func([]byte) ([]byte, error)
}

type CodecWriter struct {
	core *codecCore
}

type CodecReader struct {
	core *codecCore
}

func newReaderAndWriter(transform func([]byte) ([]byte, error)) (io.ReadCloser, io.WriteCloser) {
	newCore := &codecCore{
		inputBuffer:  new(bytes.Buffer),
		outputBuffer: new(bytes.Buffer),
		transform:    transform,
	}
	return &CodecReader{core: newCore}, &CodecWriter{core: newCore}
}

func (cw *CodecWriter) Write(data []byte) (int, error) {
	cw.core.lock.Lock()
	defer cw.core.lock.Unlock()
	if cw.core.isInputBufferClosed {
		return 0, errors.New("write after close")
	}
	return cw.core.inputBuffer.Write(data)
}

// Close runs the codec over the buffered input. Closing twice is a no-op.
func (cw *CodecWriter) Close() error {
	cw.core.lock.Lock()
	defer cw.core.lock.Unlock()
	if cw.core.isInputBufferClosed {
		return nil
	}
	cw.core.isInputBufferClosed = true
	output, err := cw.core.transform(cw.core.inputBuffer.Bytes())
	cw.core.inputBuffer.Reset()
	if err != nil {
		return err
	}
	_, err = cw.core.outputBuffer.Write(output)
	return err
}

func (cr *CodecReader) Read(data []byte) (int, error) {
	cr.core.lock.Lock()
	defer cr.core.lock.Unlock()
	if !cr.core.isInputBufferClosed {
		return 0, errors.New("input buffer not closed")
	}
	return cr.core.outputBuffer.Read(data)
}

func (cr *CodecReader) Close() error {
	cr.core.lock.Lock()
	defer cr.core.lock.Unlock()
	cr.core.outputBuffer.Reset()
	return nil
}
