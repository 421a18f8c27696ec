// Package migrations embeds SQL migration files for the SQLite stores.
// The metadata store and the vector store are separate databases, each
// with its own migration series.
package migrations

import "embed"

// Meta contains migration files for the metadata database.
//
//go:embed meta/*.up.sql
var Meta embed.FS

// Vector contains migration files for the vector database.
//
//go:embed vector/*.up.sql
var Vector embed.FS

// MetaDir is the subdirectory holding metadata migrations.
const MetaDir = "meta"

// VectorDir is the subdirectory holding vector migrations.
const VectorDir = "vector"
