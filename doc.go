// Package rig is a 2D skeletal animation runtime: a bone hierarchy resolved
// into world transforms, keyframed timelines, and a track-based animation
// state that crossfades and layers animations.
//
// # Quick start
//
// Build the setup data once, then create as many skeletons as needed:
//
//	data := rig.NewSkeletonData("hero")
//	root, _ := data.AddBone(rig.NewBoneData("root", -1))
//	arm := rig.NewBoneData("arm", root.Index)
//	arm.X = 10
//	data.AddBone(arm)
//
//	swing, _ := rig.NewRotateTimeline(1,
//		rig.Keyframe{Time: 0, Value: 0, Curve: rig.EaseCurve(ease.InOutQuad)},
//		rig.Keyframe{Time: 1, Value: 90},
//	)
//	data.AddAnimation(rig.NewAnimation("swing", swing))
//
//	sk := rig.NewSkeleton(data)
//	state := rig.NewAnimationState(rig.NewAnimationStateData(data))
//	state.SetAnimation(0, "swing", true)
//
// Each frame, advance, pose and resolve:
//
//	state.Update(dt)
//	state.Apply(sk)
//	sk.UpdateWorldTransform()
//
// After UpdateWorldTransform, attachments read bone world matrices through
// [Attachment.ComputeWorldPosition] and [Attachment.ComputeWorldRotation].
//
// # Blending
//
// Timelines write bone and slot fields with a [MixBlend]. [AnimationState]
// uses [BlendFirst] for the first write to each property in a frame and the
// entry's own blend afterwards, so tracks layer predictably regardless of
// the previous frame's pose.
//
// # Integrations
//
// Subpackage ecs bridges track events and skeleton updates into a [Donburi]
// world, hitbox mirrors bounding boxes into a [resolv] space, and debugdraw
// renders bones with [Ebitengine]. Procedural tweens use [gween].
//
// [Donburi]: https://github.com/yohamta/donburi
// [resolv]: https://github.com/solarlune/resolv
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package rig
