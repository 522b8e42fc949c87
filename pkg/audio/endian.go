package audio

import (
	"encoding/binary"
	"fmt"
)

type endian int

const (
	endianUndefined = endian(iota)
	endianBig
	endianLittle
)

func getEndian() endian {
	v := binary.NativeEndian.Uint16([]byte{1, 2})
	switch v {
	case 0x0102:
		return endianBig
	case 0x0201:
		return endianLittle
	}
	return endianUndefined
}

// PCMFormatS16Native returns the signed 16-bit format in the byte order of
// this machine, which is the layout the native detectors consume.
func PCMFormatS16Native() (PCMFormat, error) {
	switch getEndian() {
	case endianBig:
		return PCMFormatS16BE, nil
	case endianLittle:
		return PCMFormatS16LE, nil
	default:
		return PCMFormatUndefined, fmt.Errorf("unable to detect endianness of this computer")
	}
}
