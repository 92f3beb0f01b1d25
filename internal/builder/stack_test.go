package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netsynth/internal/models"
	"netsynth/internal/registry"
)

func TestStack_OrderRespectsDependencies(t *testing.T) {
	s, err := newTestBuilder().Build(sampleTopology())
	require.NoError(t, err)

	ordered, err := s.Stack.Order()
	require.NoError(t, err)
	require.Len(t, ordered, s.Stack.Len())

	position := make(map[string]int, len(ordered))
	for i, r := range ordered {
		position[r.Handle.LogicalID] = i
	}
	for _, r := range ordered {
		for _, dep := range r.Dependencies() {
			assert.Less(t, position[dep.LogicalID], position[r.Handle.LogicalID],
				"%s must come after %s", r.Handle, dep)
		}
	}
}

func TestStack_OrderIsStable(t *testing.T) {
	s, err := newTestBuilder().Build(sampleTopology())
	require.NoError(t, err)

	ids := func() []string {
		ordered, err := s.Stack.Order()
		require.NoError(t, err)
		out := make([]string, len(ordered))
		for i, r := range ordered {
			out[i] = r.Handle.LogicalID
		}
		return out
	}

	first := ids()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ids())
	}
	assert.Equal(t, "NetworkMain", first[0])
}

func TestStack_Layers(t *testing.T) {
	s, err := newTestBuilder().Build(sampleTopology())
	require.NoError(t, err)

	depth, err := s.Stack.Depth()
	require.NoError(t, err)

	assert.Equal(t, 0, depth["NetworkMain"])
	assert.Equal(t, 0, depth["GatewayIgw"])
	assert.Equal(t, 1, depth["GatewayAttachmentIgw"])
	assert.Equal(t, 1, depth["RouteTablePublicRt"])
	assert.Equal(t, 1, depth["SecurityGroupWebSg"])
	assert.Equal(t, 1, depth["SubnetPublicA"])
	assert.Equal(t, 2, depth["SubnetRouteTableAssociationPublicAPublicRt"])
	assert.Equal(t, 2, depth["RoutePublicRtRoute0"])
	assert.Equal(t, 2, depth["RoutePrivateRtRoute0"])
	assert.Equal(t, 2, depth["InstanceWeb1"])

	layers, err := s.Stack.Layers()
	require.NoError(t, err)
	require.Len(t, layers, 3)

	total := 0
	for _, layer := range layers {
		total += len(layer)
	}
	assert.Equal(t, s.Stack.Len(), total)
}

func TestStack_RejectsForwardReference(t *testing.T) {
	stack := NewStack()
	reg := registry.New()

	subnet, err := reg.Register(models.CategorySubnet, "public-a")
	require.NoError(t, err)
	network, err := reg.Register(models.CategoryNetwork, "main")
	require.NoError(t, err)

	err = stack.add(&Resource{
		Handle:     subnet,
		Type:       TypeSubnet,
		Properties: &SubnetProperties{VPC: network},
	})
	require.Error(t, err)
	assert.True(t, models.IsErrorCategory(err, models.ErrDependency))
	assert.Contains(t, err.Error(), "network/main")
	assert.Equal(t, 0, stack.Len())

	_, ok := stack.Resource(subnet.LogicalID)
	assert.False(t, ok)
}

func TestResource_DependenciesDeduplicated(t *testing.T) {
	reg := registry.New()
	subnet, _ := reg.Register(models.CategorySubnet, "public-a")
	group, _ := reg.Register(models.CategorySecurityGroup, "web-sg")
	instance, _ := reg.Register(models.CategoryInstance, "web-1")

	r := &Resource{
		Handle: instance,
		Type:   TypeInstance,
		Properties: &InstanceProperties{
			Subnet:         subnet,
			SecurityGroups: []registry.Handle{group, group},
		},
		DependsOn: []registry.Handle{subnet},
	}

	assert.Equal(t, []registry.Handle{subnet, group}, r.Dependencies())
}
