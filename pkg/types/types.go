package types

// Codec identifies an Intel Quick Sync video encoder.
type Codec string

const (
	CodecHevcQsv Codec = "hevc_qsv"
	CodecH264Qsv Codec = "h264_qsv"
)

// SupportedCodecs returns the encoder names accepted for -c:v.
func SupportedCodecs() []string {
	return []string{string(CodecHevcQsv), string(CodecH264Qsv)}
}

// RateControlMode selects how the encoder allocates bits. Quality-based and
// bitrate-based rate control are mutually exclusive.
type RateControlMode string

const (
	RateControlQuality RateControlMode = "quality"
	RateControlBitrate RateControlMode = "bitrate"
)
