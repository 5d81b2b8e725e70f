// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/ragline/core"
)

var (
	float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)
	stringMapMUS    = ord.NewMapSer[string, string](ord.String, ord.String)
)

// chunkSer is a hand-written MUS serializer for core.Chunk. Field order is
// part of the stored format; append new fields at the end only.
type chunkSer struct{}

// ChunkMUS serializes chunks for persistent vector stores.
var ChunkMUS = chunkSer{}

func (chunkSer) Marshal(c core.Chunk, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(c.ID), bs)
	n += ord.String.Marshal(c.Content, bs[n:])
	n += ord.String.Marshal(c.Metadata.DocumentID, bs[n:])
	n += varint.Int.Marshal(c.Metadata.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(c.Metadata.StartOffset, bs[n:])
	n += varint.Int.Marshal(c.Metadata.EndOffset, bs[n:])
	n += varint.Int.Marshal(c.Metadata.TokenEstimate, bs[n:])
	n += ord.String.Marshal(string(c.Metadata.SourceStrategy), bs[n:])
	n += ord.String.Marshal(c.Metadata.BoundaryReason, bs[n:])
	n += stringMapMUS.Marshal(c.Metadata.Extra, bs[n:])
	n += float32SliceMUS.Marshal(c.Embedding, bs[n:])
	return
}

func (chunkSer) Unmarshal(bs []byte) (c core.Chunk, n int, err error) {
	var (
		n1       int
		id       uint64
		strategy string
	)

	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	c.ID = core.ID(id)

	c.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata.DocumentID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata.StartOffset, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata.EndOffset, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata.TokenEstimate, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	strategy, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata.SourceStrategy = core.Strategy(strategy)

	c.Metadata.BoundaryReason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata.Extra, n1, err = stringMapMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Embedding, n1, err = float32SliceMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkSer) Size(c core.Chunk) (size int) {
	size = varint.Uint64.Size(uint64(c.ID))
	size += ord.String.Size(c.Content)
	size += ord.String.Size(c.Metadata.DocumentID)
	size += varint.Int.Size(c.Metadata.ChunkIndex)
	size += varint.Int.Size(c.Metadata.StartOffset)
	size += varint.Int.Size(c.Metadata.EndOffset)
	size += varint.Int.Size(c.Metadata.TokenEstimate)
	size += ord.String.Size(string(c.Metadata.SourceStrategy))
	size += ord.String.Size(c.Metadata.BoundaryReason)
	size += stringMapMUS.Size(c.Metadata.Extra)
	size += float32SliceMUS.Size(c.Embedding)
	return
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, ChunkMUS.Size(*chunk))
	ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &chunk, nil
}
