// Copyright 2025 Proposive Systems
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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// BlobInfo is the metadata envelope stored alongside a blob payload in
// backends that keep payload and metadata under separate keys.
type BlobInfo struct {
	Name     string
	Size     int64
	StoredAt time.Time
}

// MarshalBlobInfo serializes a BlobInfo to bytes using the MUS format.
// StoredAt is encoded as Unix microseconds.
func MarshalBlobInfo(info *BlobInfo) []byte {
	micros := info.StoredAt.UnixMicro()
	size := ord.String.Size(info.Name) +
		varint.Int64.Size(info.Size) +
		varint.Int64.Size(micros)
	buf := make([]byte, size)
	n := ord.String.Marshal(info.Name, buf)
	n += varint.Int64.Marshal(info.Size, buf[n:])
	varint.Int64.Marshal(micros, buf[n:])
	return buf
}

// UnmarshalBlobInfo deserializes a BlobInfo from bytes.
func UnmarshalBlobInfo(data []byte) (*BlobInfo, error) {
	name, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	size, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m
	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &BlobInfo{
		Name:     name,
		Size:     size,
		StoredAt: time.UnixMicro(micros).UTC(),
	}, nil
}
