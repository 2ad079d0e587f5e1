// Package shaders holds the GLSL sources used by the scene renderers.
package shaders

// HullVertexShader passes the face normal through untouched.
const HullVertexShader = `#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uMVP;

out vec3 vNormal;

void main() {
    vNormal = aNormal;
    gl_Position = uMVP * vec4(aPosition, 1.0);
}
`

// HullFragmentShader colours each face by its normal. uHighlight blends
// toward white for the selected model.
const HullFragmentShader = `#version 410 core

in vec3 vNormal;

uniform float uHighlight;

out vec4 FragColor;

void main() {
    vec3 color = vNormal * 0.5 + 0.5;
    FragColor = vec4(mix(color, vec3(1.0), uHighlight), 1.0);
}
`
