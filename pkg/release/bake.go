package release

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// DefaultWaitTimeout bounds how long Bake waits for an image to become available.
const DefaultWaitTimeout = 30 * time.Minute

// BakeInput describes the AMI to create.
type BakeInput struct {
	InstanceID  string
	Name        string
	Description string
	// NoReboot skips the instance shutdown before the snapshot.
	NoReboot bool
	// Wait blocks until the image reaches the available state.
	Wait bool
	Tags map[string]string
}

// Image is a created AMI.
type Image struct {
	ID    string
	Name  string
	Ready bool
}

// Baker creates AMIs from instances running a deployed artifact.
type Baker struct {
	client      EC2ImageAPI
	waitTimeout time.Duration
	waitOptions []func(*ec2.ImageAvailableWaiterOptions)
}

// NewBaker creates a Baker that waits at most DefaultWaitTimeout.
func NewBaker(client EC2ImageAPI) *Baker {
	return &Baker{client: client, waitTimeout: DefaultWaitTimeout}
}

// SetWaitTimeout overrides the maximum time Bake waits for availability.
func (b *Baker) SetWaitTimeout(d time.Duration) {
	b.waitTimeout = d
}

// SetWaiterOptions passes options through to the image waiter.
func (b *Baker) SetWaiterOptions(optFns ...func(*ec2.ImageAvailableWaiterOptions)) {
	b.waitOptions = optFns
}

// Bake creates the image and, when requested, waits for it to be available.
func (b *Baker) Bake(ctx context.Context, in BakeInput) (*Image, error) {
	if in.InstanceID == "" {
		return nil, fmt.Errorf("instance id is required")
	}
	if in.Name == "" {
		return nil, fmt.Errorf("image name is required")
	}

	input := &ec2.CreateImageInput{
		InstanceId: aws.String(in.InstanceID),
		Name:       aws.String(in.Name),
		NoReboot:   aws.Bool(in.NoReboot),
	}
	if in.Description != "" {
		input.Description = aws.String(in.Description)
	}
	if len(in.Tags) > 0 {
		input.TagSpecifications = []types.TagSpecification{{
			ResourceType: types.ResourceTypeImage,
			Tags:         toTags(in.Tags),
		}}
	}

	out, err := b.client.CreateImage(ctx, input)
	if err != nil {
		return nil, classifyError("create image", err)
	}

	img := &Image{ID: aws.ToString(out.ImageId), Name: in.Name}
	if !in.Wait {
		return img, nil
	}

	waiter := ec2.NewImageAvailableWaiter(b.client, b.waitOptions...)
	err = waiter.Wait(ctx, &ec2.DescribeImagesInput{ImageIds: []string{img.ID}}, b.waitTimeout)
	if err != nil {
		return img, classifyError(fmt.Sprintf("wait for image %s", img.ID), err)
	}
	img.Ready = true

	return img, nil
}

func toTags(m map[string]string) []types.Tag {
	tags := make([]types.Tag, 0, len(m))
	for k, v := range m {
		tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return tags
}
