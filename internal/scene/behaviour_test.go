package scene_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dropsim/internal/binding"
	"github.com/san-kum/dropsim/internal/config"
	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/render"
	"github.com/san-kum/dropsim/internal/scene"
)

var epoch = time.Unix(1_700_000_000, 0)

func at(ms int) time.Time { return epoch.Add(time.Duration(ms) * time.Millisecond) }

func drops(s *scene.Scene) []dynamo.BodyID {
	var out []dynamo.BodyID
	keep := s.Primary().Keep()
	for _, id := range s.World().Bodies() {
		if id != keep {
			out = append(out, id)
		}
	}
	return out
}

var _ = Describe("Scene", func() {
	var (
		cfg      *config.Config
		textures *render.MemoryTextures
		s        *scene.Scene
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		textures = render.NewMemoryTextures()
	})

	JustBeforeEach(func() {
		var err error
		s, err = scene.New(cfg, scene.Deps{Textures: textures})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		s.Close()
		Expect(textures.Live()).To(BeZero())
	})

	Describe("spawning on a held trigger", func() {
		It("admits one drop per throttle window", func() {
			st, err := s.Frame(scene.FrameInput{Trigger: true, Now: at(0)})
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Spawned).To(BeTrue())

			first := drops(s)
			Expect(first).To(HaveLen(1))
			bt, _ := s.World().Type(first[0])
			Expect(bt).To(Equal(dynamo.Dynamic))
			shapes := s.World().Shapes(first[0])
			Expect(shapes).To(HaveLen(1))
			Expect(shapes[0].Radius).To(Equal(cfg.Spawn.Radius))

			st, _ = s.Frame(scene.FrameInput{Trigger: true, Now: at(50)})
			Expect(st.Spawned).To(BeFalse())
			Expect(drops(s)).To(HaveLen(1))

			st, _ = s.Frame(scene.FrameInput{Trigger: true, Now: at(101)})
			Expect(st.Spawned).To(BeTrue())
			Expect(drops(s)).To(HaveLen(2))
		})

		It("spawns the first drop at the configured position", func() {
			// Inspect before any step has moved it.
			id, ok, err := s.Spawner().TrySpawn(true, at(0))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			tr, _ := s.World().Transform(id)
			Expect(tr.Position).To(Equal(dynamo.V(0, 1)))
		})
	})

	Describe("reclamation below the viewport", func() {
		var low, high dynamo.BodyID
		var lowTexture *render.MemoryTexture

		JustBeforeEach(func() {
			var ok bool
			low, ok, _ = s.Spawner().TrySpawn(true, at(0))
			Expect(ok).To(BeTrue())
			high, ok, _ = s.Spawner().TrySpawn(true, at(200))
			Expect(ok).To(BeTrue())

			Expect(s.World().SetTransform(low, dynamo.Transform{Position: dynamo.V(2, -10)})).To(Succeed())
			Expect(s.World().SetTransform(high, dynamo.Transform{Position: dynamo.V(2, -2)})).To(Succeed())

			e, ok := s.Table().Lookup(low)
			Expect(ok).To(BeTrue())
			lowTexture = e.Texture.(*render.MemoryTexture)
		})

		It("destroys the low body, releases its texture and keeps the high one", func() {
			Expect(s.Camera().VisibilityBound()).To(Equal(-3.0))

			st, err := s.Frame(scene.FrameInput{Now: at(300)})
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Reclaimed).To(Equal(1))
			Expect(st.Retained).To(Equal(1))

			Expect(s.World().IsAlive(low)).To(BeFalse())
			Expect(lowTexture.Disposed()).To(BeTrue())

			Expect(s.World().IsAlive(high)).To(BeTrue())
			e, ok := s.Table().Lookup(high)
			Expect(ok).To(BeTrue())
			tr, _ := s.World().Transform(high)
			Expect(e.Position).To(Equal(tr.Position.Sub(e.Origin)))
			Expect(s.DrawList()).To(ConsistOf(high))
		})

		It("reclaims nothing on an immediate second sweep", func() {
			_, err := s.Frame(scene.FrameInput{Now: at(300)})
			Expect(err).NotTo(HaveOccurred())

			disposed := textures.Disposed()
			st, err := s.Frame(scene.FrameInput{Now: at(301)})
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Reclaimed).To(BeZero())
			Expect(textures.Disposed()).To(Equal(disposed))
		})
	})

	Describe("partition across many frames", func() {
		It("keeps retained and reclaimed disjoint with one texture per binding", func() {
			for i := 0; i < 400; i++ {
				before := map[dynamo.BodyID]*binding.Entity{}
				for _, id := range drops(s) {
					e, _ := s.Table().Lookup(id)
					before[id] = e
				}

				st, err := s.Frame(scene.FrameInput{Trigger: i < 180, Now: at(i * 16)})
				Expect(err).NotTo(HaveOccurred())

				retained := map[dynamo.BodyID]bool{}
				for _, id := range s.DrawList() {
					retained[id] = true
				}
				for id := range before {
					alive := s.World().IsAlive(id)
					Expect(alive).To(Equal(retained[id]), "body %d alive=%v retained=%v", id, alive, retained[id])
				}
				Expect(st.Retained + st.Reclaimed).To(BeNumerically(">=", len(before)))
				Expect(textures.Live()).To(Equal(int64(s.Table().Len())))
			}
			Expect(s.Spawner().Spawned()).To(BeNumerically(">", 0))
		})
	})

	Describe("the primary body", func() {
		BeforeEach(func() {
			cfg = config.GetPreset("freefall")
		})

		It("falls with the simulation but is never reclaimed", func() {
			rec := render.NewRecorder()
			id, ok := s.Primary().ID()
			Expect(ok).To(BeTrue())

			prev := 1e9
			for i := 0; i < 300; i++ {
				st, err := s.Frame(scene.FrameInput{Now: at(i * 16)})
				Expect(err).NotTo(HaveOccurred())
				Expect(st.PrimaryAlive).To(BeTrue())
				Expect(st.PrimaryY).To(BeNumerically("<", prev))
				prev = st.PrimaryY

				s.Draw(rec)
				Expect(rec.Sprites()).To(ContainElement(HaveField("Body", id)))
			}
			Expect(prev).To(BeNumerically("<", s.Camera().VisibilityBound()-50))
			Expect(s.World().IsAlive(id)).To(BeTrue())
		})

		It("tolerates the body being destroyed elsewhere", func() {
			id, _ := s.Primary().ID()
			Expect(s.World().DestroyBody(id)).To(Succeed())

			Expect(s.Primary().IsAlive()).To(BeFalse())
			rec := render.NewRecorder()
			Expect(func() {
				_, err := s.Frame(scene.FrameInput{Now: at(0)})
				Expect(err).NotTo(HaveOccurred())
				s.Draw(rec)
			}).NotTo(Panic())
			Expect(rec.Sprites()).To(BeEmpty())
		})
	})
})
