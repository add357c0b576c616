/*
   Copyright The typepool Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package poolstore persists frozen pools between compilation runs so a
// cross-module merge can pick up units that were analyzed earlier.
// Payloads are the wire encoding, zstd-compressed and content-addressed
// by the digest of the uncompressed bytes; units producing identical
// pools share one blob.
package poolstore

/* Schema
v1
|--- blobs
     |--- <digest>: <zstd(wire bytes)>
|--- units
     |--- <unit>
          |--- digest: <string>
          |--- size:   <uint64 big-endian, uncompressed wire size>
*/

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/typepool/typepool/core/pool"
	"github.com/typepool/typepool/core/wire"
)

const schemaVersion = "v1"

var (
	bucketKeyVersion = []byte(schemaVersion)
	bucketKeyBlobs   = []byte("blobs")
	bucketKeyUnits   = []byte("units")
	bucketKeyDigest  = []byte("digest")
	bucketKeySize    = []byte("size")
)

// Info describes one stored unit.
type Info struct {
	Unit   string
	Digest digest.Digest
	// Size is the uncompressed wire size in bytes.
	Size uint64
}

// Store is a bbolt-backed pool store.
type Store struct {
	db  *bolt.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens (creating as needed) the store database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, fmt.Errorf("open pool store: %w", err)
	}
	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore initializes a store on an already-open database.
func NewStore(db *bolt.DB) (*Store, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	s := &Store{db: db, enc: enc, dec: dec}
	if err := s.init(); err != nil {
		enc.Close()
		dec.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(bucketKeyVersion)
		if err != nil {
			return err
		}
		for _, key := range [][]byte{bucketKeyBlobs, bucketKeyUnits} {
			if _, err := bkt.CreateBucketIfNotExists(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Put stores the frozen pool of a unit. A unit can only be stored once;
// callers re-running analysis delete the unit first.
func (s *Store) Put(ctx context.Context, unit string, p *pool.Pool) (digest.Digest, error) {
	if unit == "" {
		return "", fmt.Errorf("empty unit name: %w", errdefs.ErrInvalidArgument)
	}
	data, err := wire.Marshal(p)
	if err != nil {
		return "", err
	}
	dgst := digest.FromBytes(data)
	compressed := s.enc.EncodeAll(data, nil)

	if err := s.db.Update(func(tx *bolt.Tx) error {
		units, blobs := getBucket(tx, bucketKeyUnits), getBucket(tx, bucketKeyBlobs)
		if units == nil || blobs == nil {
			return fmt.Errorf("store schema missing: %w", errdefs.ErrFailedPrecondition)
		}
		ubkt, err := units.CreateBucket([]byte(unit))
		if err != nil {
			if err == bolt.ErrBucketExists {
				return fmt.Errorf("unit %q: %w", unit, errdefs.ErrAlreadyExists)
			}
			return err
		}
		if err := ubkt.Put(bucketKeyDigest, []byte(dgst.String())); err != nil {
			return err
		}
		sizeBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(sizeBytes, uint64(len(data)))
		if err := ubkt.Put(bucketKeySize, sizeBytes); err != nil {
			return err
		}
		// Blob may already exist when another unit produced an identical
		// pool; the content is the same by construction.
		return blobs.Put([]byte(dgst.String()), compressed)
	}); err != nil {
		return "", err
	}

	log.G(ctx).WithFields(logrus.Fields{
		"unit":   unit,
		"digest": dgst,
		"size":   len(data),
	}).Debug("pool stored")
	return dgst, nil
}

// Get loads and revalidates the pool of a unit.
func (s *Store) Get(ctx context.Context, unit string) (*pool.Pool, error) {
	var compressed []byte
	var dgst digest.Digest
	if err := s.db.View(func(tx *bolt.Tx) error {
		units := getBucket(tx, bucketKeyUnits)
		if units == nil {
			return fmt.Errorf("unit %q: %w", unit, errdefs.ErrNotFound)
		}
		ubkt := units.Bucket([]byte(unit))
		if ubkt == nil {
			return fmt.Errorf("unit %q: %w", unit, errdefs.ErrNotFound)
		}
		d, err := digest.Parse(string(ubkt.Get(bucketKeyDigest)))
		if err != nil {
			return fmt.Errorf("unit %q has invalid digest: %w", unit, err)
		}
		dgst = d
		var blob []byte
		if blobs := getBucket(tx, bucketKeyBlobs); blobs != nil {
			blob = blobs.Get([]byte(dgst.String()))
		}
		if blob == nil {
			return fmt.Errorf("blob %s for unit %q: %w", dgst, unit, errdefs.ErrNotFound)
		}
		compressed = append([]byte(nil), blob...)
		return nil
	}); err != nil {
		return nil, err
	}

	data, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress pool %s: %w", dgst, err)
	}
	if actual := digest.FromBytes(data); actual != dgst {
		return nil, fmt.Errorf("pool %s resolved to %s: %w", dgst, actual, errdefs.ErrFailedPrecondition)
	}
	p, err := wire.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("unit %q: %w", unit, err)
	}
	log.G(ctx).WithFields(logrus.Fields{
		"unit":   unit,
		"digest": dgst,
	}).Debug("pool loaded")
	return p, nil
}

// Walk calls fn for every stored unit in lexical unit order.
func (s *Store) Walk(ctx context.Context, fn func(Info) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		ubkt := getBucket(tx, bucketKeyUnits)
		if ubkt == nil {
			return nil
		}
		return ubkt.ForEach(func(k, _ []byte) error {
			bkt := ubkt.Bucket(k)
			if bkt == nil {
				return nil
			}
			info := Info{Unit: string(k)}
			if d, err := digest.Parse(string(bkt.Get(bucketKeyDigest))); err == nil {
				info.Digest = d
			}
			if v := bkt.Get(bucketKeySize); len(v) == 8 {
				info.Size = binary.BigEndian.Uint64(v)
			}
			return fn(info)
		})
	})
}

// Delete removes a unit, garbage-collecting its blob when no other unit
// references it.
func (s *Store) Delete(ctx context.Context, unit string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		ubkt := getBucket(tx, bucketKeyUnits)
		if ubkt == nil {
			return fmt.Errorf("unit %q: %w", unit, errdefs.ErrNotFound)
		}
		bkt := ubkt.Bucket([]byte(unit))
		if bkt == nil {
			return fmt.Errorf("unit %q: %w", unit, errdefs.ErrNotFound)
		}
		dgst := append([]byte(nil), bkt.Get(bucketKeyDigest)...)
		if err := ubkt.DeleteBucket([]byte(unit)); err != nil {
			return err
		}

		referenced := false
		if err := ubkt.ForEach(func(k, _ []byte) error {
			if other := ubkt.Bucket(k); other != nil {
				if string(other.Get(bucketKeyDigest)) == string(dgst) {
					referenced = true
				}
			}
			return nil
		}); err != nil {
			return err
		}
		if !referenced && len(dgst) > 0 {
			if blobs := getBucket(tx, bucketKeyBlobs); blobs != nil {
				if err := blobs.Delete(dgst); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Close releases the codecs and the database.
func (s *Store) Close() error {
	s.enc.Close()
	s.dec.Close()
	return s.db.Close()
}

func getBucket(tx *bolt.Tx, name []byte) *bolt.Bucket {
	bkt := tx.Bucket(bucketKeyVersion)
	if bkt == nil {
		return nil
	}
	return bkt.Bucket(name)
}
