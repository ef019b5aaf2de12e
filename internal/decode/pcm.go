package decode

// Helpers converting decoder output into beep's stereo float frames.
// Mono is duplicated to both channels; channels beyond two are dropped.

func stereoFromFloat32(pcm []float32, frame, channels int) [2]float64 {
	i := frame * channels
	left := float64(pcm[i])
	if channels == 1 {
		return [2]float64{left, left}
	}
	return [2]float64{left, float64(pcm[i+1])}
}

func stereoFromInt16(pcm []int16, channels int) [][2]float64 {
	if channels <= 0 {
		return nil
	}
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		left := float64(pcm[i*channels]) / 32768.0
		right := left
		if channels > 1 {
			right = float64(pcm[i*channels+1]) / 32768.0
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

// stereoFromLE decodes little-endian signed PCM of the given byte width (2 or 3).
func stereoFromLE(data []byte, width, channels int) [][2]float64 {
	if channels <= 0 || width <= 0 {
		return nil
	}
	frameBytes := width * channels
	frames := make([][2]float64, len(data)/frameBytes)
	scale := float64(int64(1) << (8*width - 1))
	for i := range frames {
		off := i * frameBytes
		left := float64(readLE(data[off:], width)) / scale
		right := left
		if channels > 1 {
			right = float64(readLE(data[off+width:], width)) / scale
		}
		frames[i] = [2]float64{left, right}
	}
	return frames
}

// readLE reads a sign-extended little-endian integer of width bytes.
func readLE(b []byte, width int) int32 {
	var v int32
	for i := range width {
		v |= int32(b[i]) << (8 * i)
	}
	shift := 32 - 8*width
	return v << shift >> shift
}
