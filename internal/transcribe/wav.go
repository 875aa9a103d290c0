package transcribe

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// writeWAV encodes float32 samples as a mono 16-bit PCM RIFF file, the input
// format whisper-cli expects.
func writeWAV(w io.Writer, samples []float32, sampleRate int) error {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataLen := len(samples) * 2
	byteRate := sampleRate * channels * bitsPerSample / 8

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataLen))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], channels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], channels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataLen))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("transcribe: write wav header: %w", err)
	}

	pcm := make([]byte, dataLen)
	for i, sample := range samples {
		clamped := float64(sample)
		if clamped > 1 {
			clamped = 1
		} else if clamped < -1 {
			clamped = -1
		}
		value := int16(math.Round(clamped * 32767))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(value))
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("transcribe: write wav data: %w", err)
	}
	return nil
}
