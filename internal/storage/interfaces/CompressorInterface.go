package interfaces

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	// Ext is appended to collection file names, e.g. ".zst". Empty for plain JSON.
	Ext() string
	Close()
}
