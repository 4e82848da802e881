package echolab

import (
	"encoding/json"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// WriteJSON serialises data to a JSON file. The output location can be
// local or an object store such as s3, since the write goes through
// TileDB's VFS abstraction.
func WriteJSON(fileURI string, configURI string, data any) (int, error) {
	var config *tiledb.Config
	var err error

	if configURI == "" {
		config, err = tiledb.NewConfig()
		if err != nil {
			panic(err)
		}
	} else {
		config, err = tiledb.LoadConfig(configURI)
		if err != nil {
			panic(err)
		}
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		panic(err)
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		panic(err)
	}
	defer vfs.Free()

	// vfs.Open removes an existing file first when opened for write
	stream, err := vfs.Open(fileURI, tiledb.TILEDB_VFS_WRITE)
	if err != nil {
		panic(err)
	}
	defer stream.Close()

	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return 0, err
	}

	bytesWritten, err := stream.Write(jsn)
	if err != nil {
		return 0, err
	}

	return bytesWritten, nil
}

// JSONDumps constructs a JSON string of the supplied data.
func JSONDumps(data any) (string, error) {
	jsn, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return string(jsn), nil
}

// JSONIndentDumps constructs a JSON string of the supplied data using an
// indentation of four spaces.
func JSONIndentDumps(data any) (string, error) {
	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "", err
	}

	return string(jsn), nil
}
