// Package shader compiles GLSL programs and caches uniform locations.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked shader program.
type Program struct {
	ID       uint32
	name     string
	uniforms map[string]int32
}

// New compiles and links a program. name is used in error messages.
func New(name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	return &Program{ID: id, name: name, uniforms: make(map[string]int32)}, nil
}

// Use binds the program.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// Uniform returns the cached location of name, -1 if inactive.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := GetUniform(p.ID, name)
	p.uniforms[name] = loc
	return loc
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, &m[0])
}

func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	gl.UniformMatrix3fv(p.Uniform(name), 1, false, &m[0])
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.Uniform(name), v[0], v[1], v[2])
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	gl.Uniform4f(p.Uniform(name), v[0], v[1], v[2], v[3])
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.Uniform(name), v)
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(p.Uniform(name), i)
}

// SetVec3Array uploads len(values)/3 vectors to an array uniform.
func (p *Program) SetVec3Array(name string, values []float32) {
	if len(values) < 3 {
		return
	}
	gl.Uniform3fv(p.Uniform(name), int32(len(values)/3), &values[0])
}

// CompileProgram compiles vertex and fragment shaders and links them.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, kind string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", kind, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// GetUniform returns the location of name, or -1 if it is inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
