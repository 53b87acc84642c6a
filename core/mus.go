package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for values persisted in the vector index. Hand-written
// rather than generated: the index stores exactly one value shape, and the
// layout (fields in declaration order) must stay stable across releases.
var (
	// ChunkMetaMUS serializes ChunkMeta values.
	ChunkMetaMUS = chunkMetaMUS{}
	// VectorEntryMUS serializes VectorEntry values.
	VectorEntryMUS = vectorEntryMUS{}

	vectorMUS    = ord.NewSliceSer[float32](raw.Float32)
	stringMapMUS = ord.NewMapSer[string, string](ord.String, ord.String)
)

type chunkMetaMUS struct{}

func (s chunkMetaMUS) Marshal(v ChunkMeta, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourceID, bs)
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(v.TotalChunks, bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += stringMapMUS.Marshal(v.Base, bs[n:])
	return n
}

func (s chunkMetaMUS) Unmarshal(bs []byte) (v ChunkMeta, n int, err error) {
	var n1 int
	v.SourceID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TotalChunks, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Base, n1, err = stringMapMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMetaMUS) Size(v ChunkMeta) (size int) {
	size = ord.String.Size(v.SourceID)
	size += varint.Int.Size(v.ChunkIndex)
	size += varint.Int.Size(v.TotalChunks)
	size += ord.String.Size(v.Type)
	size += ord.String.Size(v.Content)
	size += stringMapMUS.Size(v.Base)
	return size
}

func (s chunkMetaMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = stringMapMUS.Skip(bs[n:])
	n += n1
	return
}

type vectorEntryMUS struct{}

func (s vectorEntryMUS) Marshal(v VectorEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += vectorMUS.Marshal(v.Values, bs[n:])
	n += ChunkMetaMUS.Marshal(v.Meta, bs[n:])
	return n
}

func (s vectorEntryMUS) Unmarshal(bs []byte) (v VectorEntry, n int, err error) {
	var n1 int
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Values, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Meta, n1, err = ChunkMetaMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorEntryMUS) Size(v VectorEntry) (size int) {
	size = ord.String.Size(v.ID)
	size += vectorMUS.Size(v.Values)
	size += ChunkMetaMUS.Size(v.Meta)
	return size
}

func (s vectorEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = vectorMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ChunkMetaMUS.Skip(bs[n:])
	n += n1
	return
}
