package opengl

// basicVertSrc draws unlit geometry with per-vertex colours (axes helper).
const basicVertSrc = `
#version 410 core
layout(location = 0) in vec3 position;
layout(location = 3) in vec4 color;

uniform mat4 projectionMatrix;
uniform mat4 modelViewMatrix;

out vec4 vColor;

void main() {
    vColor      = color;
    gl_Position = projectionMatrix * modelViewMatrix * vec4(position, 1.0);
}
` + "\x00"

const basicFragSrc = `
#version 410 core
in vec4 vColor;

uniform vec3 diffuse;

out vec4 outColor;

void main() {
    outColor = vec4(vColor.rgb * diffuse, vColor.a);
}
` + "\x00"

// spriteVertSrc expands a unit quad around the node origin in view space so
// it always faces the camera. The node scale sets its size.
const spriteVertSrc = `
#version 410 core
layout(location = 0) in vec3 position;
layout(location = 2) in vec2 uv;

uniform mat4 projectionMatrix;
uniform mat4 modelViewMatrix;
uniform mat4 modelMatrix;
uniform vec2 center;

out vec2 vUv;

void main() {
    vec4 mvPosition = modelViewMatrix * vec4(0.0, 0.0, 0.0, 1.0);

    vec2 scale = vec2(length(modelMatrix[0].xyz), length(modelMatrix[1].xyz));
    mvPosition.xy += (position.xy - (center - vec2(0.5))) * scale;

    vUv         = uv;
    gl_Position = projectionMatrix * mvPosition;
}
` + "\x00"

const spriteFragSrc = `
#version 410 core
in vec2 vUv;

uniform sampler2D map;
uniform bool      hasMap;
uniform vec3      diffuse;
uniform float     opacity;

out vec4 outColor;

void main() {
    vec4 c = vec4(diffuse, opacity);
    if (hasMap) {
        c *= texture(map, vUv);
    }
    if (c.a < 0.001) {
        discard;
    }
    outColor = c;
}
` + "\x00"
