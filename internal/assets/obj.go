package assets

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/pkg/math"
)

// OBJ is a parsed Wavefront object.
type OBJ struct {
	Mesh render.MeshData
	// MaterialLib is the mtllib file referenced by the object, if any.
	MaterialLib string
	// Material is the first material used by a face.
	Material string
}

type objIndex struct {
	v, vt, vn int
}

// ParseOBJ parses positions, texture coordinates, normals and polygonal
// faces. Polygons are triangulated as fans. Faces without normals get the
// face normal.
func ParseOBJ(name string, data []byte) (*OBJ, error) {
	var (
		positions []math.Vec3
		texcoords [][2]float32
		normals   []math.Vec3
	)

	out := &OBJ{Mesh: render.MeshData{Name: name}}
	seen := make(map[objIndex]uint32)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		args := fields[1:]

		switch fields[0] {
		case "v":
			p, err := parseFloats(args, 3)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: vertex: %w", name, lineNo, err)
			}
			positions = append(positions, math.V3(p[0], p[1], p[2]))
		case "vt":
			p, err := parseFloats(args, 2)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: texcoord: %w", name, lineNo, err)
			}
			// OBJ puts v=0 at the bottom; images start at the top.
			texcoords = append(texcoords, [2]float32{p[0], 1 - p[1]})
		case "vn":
			p, err := parseFloats(args, 3)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: normal: %w", name, lineNo, err)
			}
			normals = append(normals, math.V3(p[0], p[1], p[2]).Normalize())
		case "f":
			if len(args) < 3 {
				return nil, fmt.Errorf("%s:%d: face needs at least 3 vertices", name, lineNo)
			}
			face := make([]objIndex, len(args))
			for i, a := range args {
				idx, err := parseFaceIndex(a, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
				}
				face[i] = idx
			}

			var faceNormal math.Vec3
			if face[0].vn < 0 {
				a, b, c := positions[face[0].v], positions[face[1].v], positions[face[2].v]
				faceNormal = b.Sub(a).Cross(c.Sub(a)).Normalize()
			}

			emit := func(idx objIndex) uint32 {
				if idx.vn < 0 {
					// Flat-shaded vertices can't be shared across faces.
					return appendVertex(&out.Mesh, idx, positions, texcoords, normals, faceNormal)
				}
				if i, ok := seen[idx]; ok {
					return i
				}
				i := appendVertex(&out.Mesh, idx, positions, texcoords, normals, faceNormal)
				seen[idx] = i
				return i
			}
			first := emit(face[0])
			prev := emit(face[1])
			for _, idx := range face[2:] {
				cur := emit(idx)
				out.Mesh.Indices = append(out.Mesh.Indices, first, prev, cur)
				prev = cur
			}
		case "mtllib":
			if len(args) > 0 {
				out.MaterialLib = strings.Join(args, " ")
			}
		case "usemtl":
			if len(args) > 0 && out.Material == "" {
				out.Material = args[0]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(out.Mesh.Indices) == 0 {
		return nil, fmt.Errorf("%s: no faces", name)
	}
	return out, nil
}

func appendVertex(m *render.MeshData, idx objIndex, positions []math.Vec3, texcoords [][2]float32, normals []math.Vec3, faceNormal math.Vec3) uint32 {
	v := render.Vertex{Position: positions[idx.v].Array()}
	if idx.vt >= 0 {
		v.TexCoord = texcoords[idx.vt]
	}
	if idx.vn >= 0 {
		v.Normal = normals[idx.vn].Array()
	} else {
		v.Normal = faceNormal.Array()
	}
	m.Vertices = append(m.Vertices, v)
	return uint32(len(m.Vertices) - 1)
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceIndex parses "v", "v/vt", "v//vn" or "v/vt/vn". Indices are
// 1-based, negative ones count back from the end. Missing parts are -1.
func parseFaceIndex(s string, nv, nvt, nvn int) (objIndex, error) {
	parts := strings.Split(s, "/")
	idx := objIndex{v: -1, vt: -1, vn: -1}
	resolve := func(p string, count int) (int, error) {
		if p == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("bad face index %q", s)
		}
		if i < 0 {
			i = count + i
		} else {
			i--
		}
		if i < 0 || i >= count {
			return 0, fmt.Errorf("face index %q out of range", s)
		}
		return i, nil
	}

	var err error
	if idx.v, err = resolve(parts[0], nv); err != nil {
		return idx, err
	}
	if idx.v < 0 {
		return idx, fmt.Errorf("face vertex %q has no position", s)
	}
	if len(parts) > 1 {
		if idx.vt, err = resolve(parts[1], nvt); err != nil {
			return idx, err
		}
	}
	if len(parts) > 2 {
		if idx.vn, err = resolve(parts[2], nvn); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

// ParseMTL returns the diffuse texture map of each material.
func ParseMTL(data []byte) map[string]string {
	maps := make(map[string]string)
	current := ""
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			current = fields[1]
		case "map_Kd":
			if current != "" {
				// Options such as -s come before the file name.
				maps[current] = fields[len(fields)-1]
			}
		}
	}
	return maps
}
