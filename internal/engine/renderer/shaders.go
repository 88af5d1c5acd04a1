package renderer

// One program serves every draw: lit and unlit, textured or flat.
// Attribute layout matches render.Vertex.

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;
uniform mat3 uNormalMatrix;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vTexCoord;

void main() {
	vec4 world = uModel * vec4(aPosition, 1.0);
	vWorldPos = world.xyz;
	vNormal = uNormalMatrix * aNormal;
	vTexCoord = aTexCoord;
	gl_Position = uProjection * uView * world;
}
`

const fragmentShader = `
#version 410 core

#define MAX_LIGHTS 8

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vTexCoord;

out vec4 FragColor;

uniform vec4 uColor;
uniform bool uLit;
uniform bool uUseTexture;
uniform sampler2D uTexture;

uniform vec3 uAmbient;
uniform vec3 uEye;
uniform int uLightCount;
uniform vec3 uLightPos[MAX_LIGHTS];
uniform vec3 uLightDiffuse[MAX_LIGHTS];
uniform vec3 uLightSpecular[MAX_LIGHTS];
uniform float uShininess;
uniform float uSpecularStrength;

void main() {
	vec4 base = uColor;
	if (uUseTexture) {
		base *= texture(uTexture, vTexCoord);
	}
	if (base.a < 0.01) {
		discard;
	}
	if (!uLit) {
		FragColor = base;
		return;
	}

	vec3 n = normalize(vNormal);
	vec3 viewDir = normalize(uEye - vWorldPos);
	vec3 light = uAmbient;
	vec3 spec = vec3(0.0);
	for (int i = 0; i < uLightCount; i++) {
		vec3 l = normalize(uLightPos[i] - vWorldPos);
		float d = max(dot(n, l), 0.0);
		light += uLightDiffuse[i] * d;
		if (d > 0.0) {
			vec3 h = normalize(l + viewDir);
			spec += uLightSpecular[i] * pow(max(dot(n, h), 0.0), uShininess) * uSpecularStrength;
		}
	}
	FragColor = vec4(base.rgb * light + spec, base.a);
}
`
