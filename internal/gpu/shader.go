// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

// postShaderWGSL applies calibration to RGB and edge blending to alpha of
// one pixel per invocation. It matches the CPU stages in the calibration
// and edgeblend packages.
const postShaderWGSL = `
struct Params {
    width: u32,
    height: u32,
    flags: u32,
    blend_gamma: f32,
    left_width: f32,
    left_offset: f32,
    right_width: f32,
    right_offset: f32,
    top_width: f32,
    top_offset: f32,
    bottom_width: f32,
    bottom_offset: f32,
    brightness: f32,
    contrast: f32,
    inv_gamma_r: f32,
    inv_gamma_g: f32,
    inv_gamma_b: f32,
    temp_r: f32,
    temp_g: f32,
    temp_b: f32,
    saturation: f32,
    pad0: f32,
    pad1: f32,
    pad2: f32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read_write> pixels: array<vec4<f32>>;

fn zone_alpha(d: f32, w: f32) -> f32 {
    if (w <= 0.0 || d >= w) {
        return 1.0;
    }
    if (d <= 0.0) {
        return 0.0;
    }
    return pow(d / w, params.blend_gamma);
}

fn tone(v: f32, inv_gamma: f32) -> f32 {
    let c = clamp((v - 0.5) * params.contrast + 0.5 + params.brightness, 0.0, 1.0);
    if (c <= 0.0) {
        return 0.0;
    }
    return pow(c, inv_gamma);
}

@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    if (id.x >= params.width || id.y >= params.height) {
        return;
    }
    let idx = id.y * params.width + id.x;
    var p = pixels[idx];

    if ((params.flags & 2u) != 0u) {
        let t = vec3<f32>(p.r * params.temp_r, p.g * params.temp_g, p.b * params.temp_b);
        let c = vec3<f32>(
            tone(t.x, params.inv_gamma_r),
            tone(t.y, params.inv_gamma_g),
            tone(t.z, params.inv_gamma_b)
        );
        let l = dot(c, vec3<f32>(0.2126, 0.7152, 0.0722));
        let s = vec3<f32>(l, l, l) + (c - vec3<f32>(l, l, l)) * params.saturation;
        p = vec4<f32>(s.x, s.y, s.z, p.a);
    }

    if ((params.flags & 1u) != 0u) {
        let u = (f32(id.x) + 0.5) / f32(params.width);
        let v = (f32(id.y) + 0.5) / f32(params.height);
        let a = zone_alpha(u - params.left_offset, params.left_width)
            * zone_alpha(1.0 - u - params.right_offset, params.right_width)
            * zone_alpha(v - params.top_offset, params.top_width)
            * zone_alpha(1.0 - v - params.bottom_offset, params.bottom_width);
        p = vec4<f32>(p.r, p.g, p.b, p.a * a);
    }

    pixels[idx] = p;
}
`
