package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"blockpop/internal/config"
	"blockpop/internal/graphics"
	"blockpop/internal/profiling"
	"blockpop/internal/render"
	"blockpop/internal/worldgen"
	"blockpop/pkg/mesh"
	"blockpop/pkg/voxel"
)

func init() { runtime.LockOSThread() }

const (
	winW = 1280
	winH = 720
)

var (
	flagSize   = flag.Uint("size", 66, "padded chunk dimension (interior is size-2)")
	flagLODs   = flag.Int("lods", 5, "LOD class count M")
	flagScene  = flag.String("scene", "terrain", "scene to generate: terrain, sphere, solid")
	flagSeed   = flag.Int64("seed", 1, "terrain seed")
	flagPeriod = flag.Int("period", 96, "distance over which the LOD sweeps its range")
	flagFont   = flag.String("font", "", "path to a .ttf for the HUD overlay (optional)")
)

var meshVertexShader = `#version 330 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec3 aColor;
uniform mat4 view;
uniform mat4 proj;
out vec3 Normal;
out vec3 FragPos;
out vec3 Color;
void main() {
	FragPos = aPos;
	Normal = aNormal;
	Color = aColor;
	gl_Position = proj * view * vec4(aPos, 1.0);
}
`

var meshFragmentShader = `#version 330 core
in vec3 Normal;
in vec3 FragPos;
in vec3 Color;
uniform vec3 lightDir;
out vec4 FragColor;
void main() {
	vec3 n = normalize(Normal);
	float diff = max(dot(n, -lightDir), 0.3);
	FragColor = vec4(Color * diff, 1.0);
}
`

// chunkMesh is one uploaded POP mesh plus its draw-range bookkeeping.
type chunkMesh struct {
	name    string
	vao     uint32
	params  render.LODParams
	maxLODs int
}

type app struct {
	window *glfw.Window
	shader *graphics.Shader

	meshes  []chunkMesh
	current int

	center mgl32.Vec3

	camPos     mgl32.Vec3
	yaw, pitch float64

	font *graphics.FontRenderer
}

func main() {
	flag.Parse()

	shape := mesh.NewShape(uint32(*flagSize), uint32(*flagSize), uint32(*flagSize))
	if *flagLODs > shape.MaxLODs() {
		log.Fatalf("popview: %d LOD classes oversubscribe size %d (max %d)", *flagLODs, *flagSize, shape.MaxLODs())
	}
	config.SetLODPeriod(*flagPeriod)

	if err := glfw.Init(); err != nil {
		log.Fatalf("popview: glfw: %v", err)
	}
	closer.Bind(glfw.Terminate)

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(winW, winH, "popview", nil, nil)
	if err != nil {
		log.Fatalf("popview: window: %v", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		log.Fatalf("popview: gl: %v", err)
	}
	log.Printf("popview: OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if config.GetVsync() {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	shader, err := graphics.NewShader(meshVertexShader, meshFragmentShader)
	if err != nil {
		log.Fatalf("popview: shader: %v", err)
	}

	a := &app{
		window: window,
		shader: shader,
		center: mgl32.Vec3{float32(*flagSize) / 2, float32(*flagSize) / 2, float32(*flagSize) / 2},
		camPos: mgl32.Vec3{float32(*flagSize) * 1.5, float32(*flagSize), float32(*flagSize) * 1.5},
		yaw:    -135,
		pitch:  -20,
	}

	a.buildMeshes(shape)

	if *flagFont != "" {
		atlas, err := graphics.BuildFontAtlas(*flagFont, 18)
		if err != nil {
			log.Printf("popview: font disabled: %v", err)
		} else if fr, err := graphics.NewFontRenderer(atlas, winW, winH); err != nil {
			log.Printf("popview: font disabled: %v", err)
		} else {
			a.font = fr
		}
	}

	a.bindInput()

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.53, 0.71, 0.92, 1.0)

	a.run()
	closer.Close()
}

// buildMeshes meshes the scene with both meshers and uploads one static
// mesh per mesher; a key toggles which one is drawn.
func (a *app) buildMeshes(shape mesh.Shape) {
	var voxels []voxel.Block
	switch *flagScene {
	case "sphere":
		voxels = worldgen.Sphere(shape, float64(shape.X)/2-2)
	case "solid":
		voxels = worldgen.Solid(shape, voxel.BlockStone)
	default:
		voxels = worldgen.Terrain(shape, *flagSeed, shape.Y/3)
	}

	visited := mesh.NewVisitedBuffer(shape.Size())
	colorFor := func(f mesh.Face, q mesh.Quad) [3]float32 {
		return voxel.Definition(voxels[shape.Linearize(q.Minimum)]).Color
	}

	pop := mesh.NewPopBuffer[mesh.UnitQuad](*flagLODs)
	mesh.VisibleFacesQuads(shape, voxels, visited, pop)
	a.addMesh("visible", render.BuildPopMesh(pop, 1.0, colorFor), pop.Buckets(), pop.MaxLODs())

	greedy := mesh.NewPopBuffer[mesh.Quad](*flagLODs)
	mesh.GreedyQuads[voxel.Block, voxel.Block](shape, voxels, visited, greedy)
	a.addMesh("greedy", render.BuildPopMesh(greedy, 1.0, colorFor), greedy.Buckets(), greedy.MaxLODs())

	for _, m := range a.meshes {
		log.Printf("popview: %s mesh: %d quads, buckets %v", m.name, m.params.Buckets[m.maxLODs-1], m.params.Buckets)
	}
}

func (a *app) addMesh(name string, data *render.MeshData, buckets [8]uint32, maxLODs int) {
	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*4, gl.Ptr(data.Vertices), gl.STATIC_DRAW)

	stride := int32(render.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(6*4))

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	a.meshes = append(a.meshes, chunkMesh{
		name: name,
		vao:  vao,
		params: render.LODParams{
			Buckets: buckets,
			MaxLODs: maxLODs,
			Period:  float32(config.GetLODPeriod()),
			Easing:  render.Easing(config.GetEasing()),
		},
		maxLODs: maxLODs,
	})
}

func (a *app) run() {
	lastFrame := glfw.GetTime()
	for !a.window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - lastFrame
		lastFrame = now

		profiling.Reset()
		a.processInput(dt)

		stopDraw := profiling.Track("popview.draw")

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		view := mgl32.LookAtV(a.camPos, a.camPos.Add(a.front()), mgl32.Vec3{0, 1, 0})
		proj := mgl32.Perspective(mgl32.DegToRad(70), float32(winW)/float32(winH), 0.1, 2000)

		m := &a.meshes[a.current]
		m.params.Period = float32(config.GetLODPeriod())
		m.params.Easing = render.Easing(config.GetEasing())

		distance := a.camPos.Sub(a.center).Len()
		level := m.params.DrawLevel(distance)
		count := m.params.IndexCount(level)

		a.shader.Use()
		a.shader.SetMatrix4("view", &view[0])
		a.shader.SetMatrix4("proj", &proj[0])
		a.shader.SetVector3("lightDir", -0.45, -0.8, -0.4)

		if config.GetWireframeMode() {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}

		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, gl.PtrOffset(0))
		gl.BindVertexArray(0)
		stopDraw()

		if a.font != nil {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
			hud := fmt.Sprintf("%s  level %d/%d  quads %d/%d  dist %.0f  easing %s",
				m.name, level, m.maxLODs-1, count/6, m.params.Buckets[m.maxLODs-1], distance,
				render.Easing(config.GetEasing()))
			a.font.Render(hud, 12, 24, 1, mgl32.Vec3{1, 1, 1})
			a.font.Render(profiling.TopN(3), 12, 48, 1, mgl32.Vec3{0.9, 0.9, 0.9})
		}

		a.window.SwapBuffers()
		glfw.PollEvents()
	}
}
