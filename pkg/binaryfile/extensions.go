// Copyright 2025 walteh LLC
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

package binaryfile

// 📚 binaryExtensions lists extensions (lowercase, with leading dot) that are
// classified binary without reading content. First stop in the classification
// chain.
var binaryExtensions = map[string]bool{
	// Images
	".png": true, ".jpg": true, ".jpeg": true, ".jpe": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true, ".ico": true,
	".icns": true, ".heic": true, ".heif": true, ".avif": true, ".jp2": true,
	".psd": true, ".psb": true, ".xcf": true, ".ai": true, ".eps": true,
	".raw": true, ".cr2": true, ".cr3": true, ".nef": true, ".arw": true,
	".dng": true, ".orf": true, ".rw2": true, ".pef": true, ".sr2": true,
	".tga": true, ".dds": true, ".exr": true, ".hdr": true, ".pcx": true,

	// Audio
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true, ".oga": true,
	".opus": true, ".aac": true, ".m4a": true, ".wma": true, ".aiff": true,
	".aif": true, ".ape": true, ".alac": true, ".mid": true, ".midi": true,
	".amr": true, ".au": true, ".ra": true, ".dsf": true, ".dff": true,

	// Video
	".mp4": true, ".m4v": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".mpg": true, ".mpeg": true,
	".m2v": true, ".m2ts": true, ".mts": true, ".ts": true, ".vob": true,
	".ogv": true, ".3gp": true, ".3g2": true, ".rm": true, ".rmvb": true,
	".asf": true, ".divx": true, ".f4v": true,

	// Archives and compression
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".bz2": true,
	".tbz2": true, ".xz": true, ".txz": true, ".lz": true, ".lzma": true,
	".lz4": true, ".zst": true, ".zstd": true, ".7z": true, ".rar": true,
	".cab": true, ".arj": true, ".lha": true, ".lzh": true, ".ace": true,
	".cpio": true, ".z": true, ".br": true, ".sz": true, ".war": true,
	".ear": true, ".jar": true, ".aar": true, ".whl": true, ".egg": true,
	".gem": true, ".nupkg": true, ".crate": true, ".deb": true, ".rpm": true,
	".apk": true, ".ipa": true, ".xpi": true, ".crx": true, ".snap": true,
	".flatpak": true, ".appimage": true, ".pkg": true, ".dmg": true,
	".msi": true, ".msix": true, ".hfs": true, ".squashfs": true,

	// Executables and compiled artifacts
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".lib": true, ".o": true, ".obj": true, ".ko": true, ".sys": true,
	".bin": true, ".com": true, ".out": true, ".elf": true, ".axf": true,
	".prx": true, ".puff": true,
	".class": true, ".dex": true, ".oat": true, ".art": true, ".pyc": true,
	".pyo": true, ".pyd": true, ".rbc": true, ".beam": true, ".hi": true,
	".cmi": true, ".cmo": true, ".cmx": true, ".cma": true, ".cmxa": true,
	".rlib": true, ".rmeta": true, ".wasm": true, ".bc": true, ".nexe": true,
	".node": true, ".mexw64": true, ".mexmaci64": true, ".mexa64": true,

	// Documents and office formats
	".pdf": true, ".doc": true, ".docx": true, ".docm": true, ".dot": true,
	".dotx": true, ".xls": true, ".xlsx": true, ".xlsm": true, ".xlsb": true,
	".xlt": true, ".ppt": true, ".pptx": true, ".pptm": true, ".pps": true,
	".ppsx": true, ".odt": true, ".ods": true, ".odp": true, ".odg": true,
	".odb": true, ".odf": true, ".pages": true, ".numbers": true,
	".key": true, ".vsd": true, ".vsdx": true, ".pub": true, ".one": true,
	".xps": true, ".oxps": true, ".djvu": true, ".epub": true, ".mobi": true,
	".azw": true, ".azw3": true, ".fb2": true, ".chm": true,

	// Databases and data stores
	".db": true, ".db3": true, ".sqlite": true, ".sqlite3": true,
	".mdb": true, ".accdb": true, ".frm": true, ".myd": true, ".myi": true,
	".ibd": true, ".dbf": true, ".mdf": true, ".ldf": true, ".ndf": true,
	".rdb": true, ".aof": true, ".ldb": true, ".sst": true,
	".realm": true, ".fdb": true, ".gdb": true, ".kdbx": true, ".kdb": true,
	".parquet": true, ".orc": true, ".avro": true, ".feather": true,
	".arrow": true, ".hdf5": true, ".h5": true, ".nc": true, ".fits": true,
	".npy": true, ".npz": true, ".pkl": true, ".pickle": true, ".joblib": true,
	".pb": true, ".pbf": true, ".tfrecord": true, ".onnx": true,
	".safetensors": true, ".gguf": true, ".ggml": true, ".pt": true,
	".pth": true, ".ckpt": true, ".keras": true,

	// Fonts
	".ttf": true, ".otf": true, ".woff": true, ".woff2": true, ".eot": true,
	".pfb": true, ".pfm": true, ".fon": true, ".fnt": true,

	// Disk, firmware and VM images
	".iso": true, ".img": true, ".vhd": true, ".vhdx": true, ".vmdk": true,
	".vdi": true, ".qcow": true, ".qcow2": true, ".ova": true,
	".wim": true, ".esd": true, ".swm": true, ".rom": true, ".fw": true,
	".efi": true, ".uf2": true, ".dsk": true, ".toast": true,

	// Certificates, keys and binary config
	".der": true, ".p12": true, ".pfx": true, ".jks": true, ".keystore": true,
	".gpg": true, ".pgp": true, ".sig": true,

	// Misc binary
	".swf": true, ".fla": true, ".blend": true, ".fbx": true, ".3ds": true,
	".max": true, ".stl": true, ".glb": true, ".dwg": true,
	".skp": true, ".sav": true, ".dat": true, ".pak": true, ".wad": true,
	".unitypackage": true, ".uasset": true, ".umap": true, ".pcap": true,
	".pcapng": true, ".dmp": true, ".mdmp": true, ".core": true,
	".torrent": true, ".lnk": true, ".cur": true, ".ani": true,
	".scr": true, ".ocx": true, ".cpl": true, ".drv": true, ".vxd": true,
	".tlb": true, ".olb": true, ".mui": true, ".mo": true, ".gmo": true,
	".qm": true, ".pdb": true, ".idb": true, ".ilk": true, ".exp": true,
	".res": true, ".pch": true, ".gch": true, ".sdf": true, ".suo": true,
	".xnb": true, ".swc": true, ".ane": true,
}

// HasBinaryExtension reports whether the extension alone marks the path binary.
func HasBinaryExtension(ext string) bool {
	return binaryExtensions[ext]
}
